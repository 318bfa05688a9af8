package model

import "time"

// 验证用途
const (
	VerificationPurposeSignup        = "signup"
	VerificationPurposePasswordReset = "password_reset"
)

// 验证状态：pending → verified → committed，或 pending → expired
const (
	VerificationStatusPending   = "pending"
	VerificationStatusVerified  = "verified"
	VerificationStatusCommitted = "committed"
	VerificationStatusExpired   = "expired"
)

// PendingVerification 待验证记录表，对应 pending_verifications
// 注册与找回密码在输入验证码前的暂存状态
type PendingVerification struct {
	VerificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"verification_id"`
	Purpose        string    `gorm:"type:varchar(20);not null"                      json:"purpose"`
	Email          string    `gorm:"type:varchar(120);not null;index"               json:"email"`
	Username       *string   `gorm:"type:varchar(80)"                               json:"username,omitempty"`
	PasswordHash   string    `gorm:"type:varchar(128);not null"                     json:"-"`
	CodeHash       string    `gorm:"type:varchar(128);not null"                     json:"-"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Attempts       int       `gorm:"not null;default:0"                             json:"attempts"`
	ExpiresAt      time.Time `gorm:"not null"                                       json:"expires_at"`
	Timestamps
}

// TableName 指定表名
func (PendingVerification) TableName() string { return "pending_verifications" }

// IsExpired 判断记录在 now 时刻是否已失效
func (v *PendingVerification) IsExpired(now time.Time) bool {
	return v.Status == VerificationStatusExpired || !now.Before(v.ExpiresAt)
}

// CanTransition 校验状态机迁移是否合法
func (v *PendingVerification) CanTransition(to string) bool {
	switch v.Status {
	case VerificationStatusPending:
		return to == VerificationStatusVerified || to == VerificationStatusExpired
	case VerificationStatusVerified:
		return to == VerificationStatusCommitted
	default:
		return false
	}
}
