package model

import "course-review/internal/rating"

// Teacher 教师表，对应 teachers
type Teacher struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name    string `gorm:"type:varchar(80);not null" json:"name"`
	Surname string `gorm:"type:varchar(80);not null" json:"surname"`
	Timestamps

	// 关联
	Disciplines []Discipline    `gorm:"many2many:teacher_disciplines;constraint:OnDelete:CASCADE" json:"disciplines,omitempty"`
	Reviews     []TeacherReview `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE"          json:"-"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// FullName 姓名
func (t *Teacher) FullName() string { return t.Name + " " + t.Surname }

// AverageRating 基于已预加载的 Reviews 计算平均分
func (t *Teacher) AverageRating() float64 {
	ratings := make([]int, len(t.Reviews))
	for i := range t.Reviews {
		ratings[i] = t.Reviews[i].Rating
	}
	return rating.FromRatings(ratings)
}

// TeachesDiscipline 已预加载 Disciplines 时判断教师是否承担该课程
func (t *Teacher) TeachesDiscipline(disciplineID int64) bool {
	for i := range t.Disciplines {
		if t.Disciplines[i].ID == disciplineID {
			return true
		}
	}
	return false
}
