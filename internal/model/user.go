package model

// 用户角色
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User 用户表，对应 users
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"                   json:"id"`
	Username     string `gorm:"type:varchar(80);not null;uniqueIndex"      json:"username"`
	Email        string `gorm:"type:varchar(120);not null;uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"type:varchar(128);not null"                 json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Timestamps
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
