package dto

// ── 教师 / 课程模块 DTO ──

// CreateTeacherRequest 创建教师请求
type CreateTeacherRequest struct {
	Name          string  `json:"name"           binding:"required,max=80"`
	Surname       string  `json:"surname"        binding:"required,max=80"`
	DisciplineIDs []int64 `json:"discipline_ids" binding:"omitempty,dive,min=1"`
}

// SetTeacherDisciplinesRequest 整体替换教师授课课程，空列表表示清空
type SetTeacherDisciplinesRequest struct {
	DisciplineIDs []int64 `json:"discipline_ids" binding:"omitempty,dive,min=1"`
}

// CreateDisciplineRequest 创建课程请求
type CreateDisciplineRequest struct {
	Name    string `json:"name"    binding:"required,max=80"`
	Faculty string `json:"faculty" binding:"required,max=80"`
	Type    string `json:"type"    binding:"required,max=80"`
}

// TeacherBrief 教师简要信息
type TeacherBrief struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// DisciplineBrief 课程简要信息
type DisciplineBrief struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Faculty string `json:"faculty"`
	Type    string `json:"type"`
}

// TeacherResponse 教师信息，列表接口不返回平均分
type TeacherResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Surname       string            `json:"surname"`
	Disciplines   []DisciplineBrief `json:"disciplines"`
	AverageRating *float64          `json:"average_rating,omitempty"`
}

// DisciplineResponse 课程信息，列表接口不返回授课教师与平均分
type DisciplineResponse struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Faculty       string         `json:"faculty"`
	Type          string         `json:"type"`
	Teachers      []TeacherBrief `json:"teachers,omitempty"`
	AverageRating *float64       `json:"average_rating,omitempty"`
}
