package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// VerificationResponse 验证码已发出，客户端凭 verification_id 提交验证码
type VerificationResponse struct {
	VerificationID string `json:"verification_id"`
	Purpose        string `json:"purpose"`
	ExpiresAt      string `json:"expires_at"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// VerifyResponse 验证码校验通过后的结果
// 注册完成时直接签发 Token；找回密码完成时 Tokens 为空，需重新登录
type VerifyResponse struct {
	Purpose string         `json:"purpose"`
	Tokens  *TokenResponse `json:"tokens,omitempty"`
}
