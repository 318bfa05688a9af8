package dto

// ── 评价模块 DTO ──

// ReviewSearchQuery 评价检索参数
// 均以字符串接收，由服务层统一转换；空串表示不限制
type ReviewSearchQuery struct {
	TeacherID    string `form:"teacher_id"`
	DisciplineID string `form:"discipline_id"`
	Difficulty   string `form:"difficulty"`
	Rating       string `form:"rating"` // 最低评分（含）
	Faculty      string `form:"faculty"`
	Type         string `form:"type"`
	Time         string `form:"time"` // new | old
}

// SubmitTeacherReviewRequest 提交教师评价
type SubmitTeacherReviewRequest struct {
	TeacherID    int64  `json:"teacher_id"    binding:"required,min=1"`
	DisciplineID int64  `json:"discipline_id" binding:"required,min=1"`
	Difficulty   string `json:"difficulty"    binding:"required,max=32"`
	Rating       int    `json:"rating"        binding:"required"`
	Feedback     string `json:"feedback"      binding:"required"`
}

// SubmitDisciplineReviewRequest 提交课程评价
type SubmitDisciplineReviewRequest struct {
	DisciplineID int64  `json:"discipline_id" binding:"required,min=1"`
	Difficulty   string `json:"difficulty"    binding:"required,max=32"`
	Rating       int    `json:"rating"        binding:"required"`
	Feedback     string `json:"feedback"      binding:"required"`
}

// TeacherReviewResponse 教师评价
type TeacherReviewResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	TeacherID      int64  `json:"teacher_id"`
	DisciplineID   int64  `json:"discipline_id"`
	TeacherName    string `json:"teacher_name"`
	TeacherSurname string `json:"teacher_surname"`
	DisciplineName string `json:"discipline_name"`
	Difficulty     string `json:"difficulty"`
	Rating         int    `json:"rating"`
	Feedback       string `json:"feedback"`
	SubmittedOn    string `json:"submitted_on"` // YYYY-MM-DD
}

// DisciplineReviewResponse 课程评价
type DisciplineReviewResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	DisciplineID   int64  `json:"discipline_id"`
	DisciplineName string `json:"discipline_name"`
	Difficulty     string `json:"difficulty"`
	Rating         int    `json:"rating"`
	Feedback       string `json:"feedback"`
	SubmittedOn    string `json:"submitted_on"` // YYYY-MM-DD
}

// ReviewListResponse 评价检索结果
// Items 为 []TeacherReviewResponse 或 []DisciplineReviewResponse，取决于 Kind
type ReviewListResponse struct {
	Kind  string      `json:"kind"`
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}
