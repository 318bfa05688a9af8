package model

import "course-review/internal/rating"

// Discipline 课程表，对应 disciplines
type Discipline struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name    string `gorm:"type:varchar(80);not null" json:"name"`
	Faculty string `gorm:"type:varchar(80);not null" json:"faculty"`
	Type    string `gorm:"type:varchar(80);not null" json:"type"`
	Timestamps

	// 关联
	Teachers []Teacher          `gorm:"many2many:teacher_disciplines;constraint:OnDelete:CASCADE" json:"teachers,omitempty"`
	Reviews  []DisciplineReview `gorm:"foreignKey:DisciplineID;constraint:OnDelete:CASCADE"       json:"-"`
}

// TableName 指定表名
func (Discipline) TableName() string { return "disciplines" }

// AverageRating 基于已预加载的 Reviews 计算平均分
func (d *Discipline) AverageRating() float64 {
	ratings := make([]int, len(d.Reviews))
	for i := range d.Reviews {
		ratings[i] = d.Reviews[i].Rating
	}
	return rating.FromRatings(ratings)
}
