package dto

// ── 个人资料模块 DTO ──

// UpdateProfileRequest 修改用户名和/或密码，两者均为空视为无变更
type UpdateProfileRequest struct {
	Username    string `json:"username"     binding:"max=80"`
	NewPassword string `json:"new_password"`
}

// ProfileResponse 个人资料及本人提交的评价
type ProfileResponse struct {
	User              UserResponse               `json:"user"`
	TeacherReviews    []TeacherReviewResponse    `json:"teacher_reviews"`
	DisciplineReviews []DisciplineReviewResponse `json:"discipline_reviews"`
}
