package dto

// ── 认证模块 DTO ──

// SignupRequest 注册请求（第一步：提交资料，等待验证码）
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Email    string `json:"email"    binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,strong_password"`
}

// ForgotPasswordRequest 找回密码请求（第一步：提交新密码，等待验证码）
type ForgotPasswordRequest struct {
	Email       string `json:"email"        binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,strong_password"`
}

// VerifyRequest 提交验证码（第二步）
type VerifyRequest struct {
	VerificationID string `json:"verification_id" binding:"required,uuid"`
	Code           string `json:"code"            binding:"required,len=6,numeric"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
