package model

import (
	"time"

	"gorm.io/gorm"
)

// 评分取值范围
const (
	MinRating = 1
	MaxRating = 5
)

// TeacherReview 教师评价表，对应 teacher_reviews
// TeacherName / TeacherSurname / DisciplineName 为创建时的快照，之后不随原实体改名同步
type TeacherReview struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID         int64     `gorm:"not null;index"            json:"user_id"`
	TeacherID      int64     `gorm:"not null;index"            json:"teacher_id"`
	DisciplineID   int64     `gorm:"not null;index"            json:"discipline_id"`
	TeacherName    string    `gorm:"type:varchar(80);not null" json:"teacher_name"`
	TeacherSurname string    `gorm:"type:varchar(80);not null" json:"teacher_surname"`
	DisciplineName string    `gorm:"type:varchar(80);not null" json:"discipline_name"`
	Difficulty     string    `gorm:"type:varchar(32);not null" json:"difficulty"`
	Rating         int       `gorm:"not null"                  json:"rating"`
	Feedback       string    `gorm:"type:text;not null"        json:"feedback"`
	SubmittedOn    time.Time `gorm:"type:date;not null"        json:"submitted_on"`

	// 关联
	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"       json:"-"`
	Teacher    *Teacher    `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE"    json:"-"`
	Discipline *Discipline `gorm:"foreignKey:DisciplineID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (TeacherReview) TableName() string { return "teacher_reviews" }

// BeforeCreate 未指定提交日期时取当天
func (r *TeacherReview) BeforeCreate(_ *gorm.DB) error {
	if r.SubmittedOn.IsZero() {
		r.SubmittedOn = Today()
	}
	return nil
}

// BeforeUpdate 任意更新都会把提交日期刷新为当天
func (r *TeacherReview) BeforeUpdate(_ *gorm.DB) error {
	r.SubmittedOn = Today()
	return nil
}

// DisciplineReview 课程评价表，对应 discipline_reviews
type DisciplineReview struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID         int64     `gorm:"not null;index"            json:"user_id"`
	DisciplineID   int64     `gorm:"not null;index"            json:"discipline_id"`
	DisciplineName string    `gorm:"type:varchar(80);not null" json:"discipline_name"`
	Difficulty     string    `gorm:"type:varchar(32);not null" json:"difficulty"`
	Rating         int       `gorm:"not null"                  json:"rating"`
	Feedback       string    `gorm:"type:text;not null"        json:"feedback"`
	SubmittedOn    time.Time `gorm:"type:date;not null"        json:"submitted_on"`

	// 关联
	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"       json:"-"`
	Discipline *Discipline `gorm:"foreignKey:DisciplineID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (DisciplineReview) TableName() string { return "discipline_reviews" }

// BeforeCreate 未指定提交日期时取当天
func (r *DisciplineReview) BeforeCreate(_ *gorm.DB) error {
	if r.SubmittedOn.IsZero() {
		r.SubmittedOn = Today()
	}
	return nil
}

// BeforeUpdate 任意更新都会把提交日期刷新为当天
func (r *DisciplineReview) BeforeUpdate(_ *gorm.DB) error {
	r.SubmittedOn = Today()
	return nil
}
