package repository

import (
	"gorm.io/gorm"

	"course-review/internal/model"
)

// TimeOrder 评价的时间排序方式
type TimeOrder string

const (
	// OrderNone 不指定时间排序，按 id 升序保证结果稳定
	OrderNone TimeOrder = ""
	// OrderNewest 新评价在前
	OrderNewest TimeOrder = "new"
	// OrderOldest 旧评价在前
	OrderOldest TimeOrder = "old"
)

// ReviewFilter 评价检索条件，所有条件之间为 AND 关系，零值表示不限制
type ReviewFilter struct {
	TeacherID    *int64 // 仅对教师评价生效
	DisciplineID *int64
	Difficulty   string
	MinRating    *int // rating >= MinRating
	Faculty      string
	Type         string
	Order        TimeOrder
}

// Scope 生成对应评价类别的 GORM 查询条件
func (f ReviewFilter) Scope(kind model.ReviewKind) func(*gorm.DB) *gorm.DB {
	table := kind.ReviewTable()
	col := func(name string) string { return table + "." + name }

	return func(db *gorm.DB) *gorm.DB {
		db = db.Table(table)

		if f.TeacherID != nil && kind == model.ReviewKindTeacher {
			db = db.Where(col("teacher_id")+" = ?", *f.TeacherID)
		}
		if f.DisciplineID != nil {
			db = db.Where(col("discipline_id")+" = ?", *f.DisciplineID)
		}

		// 学院 / 类型属于课程属性，通过 discipline_id 一对一关联 disciplines 表
		if f.Faculty != "" || f.Type != "" {
			disc := model.Discipline{}.TableName()
			db = db.Select(table + ".*").
				Joins("JOIN " + disc + " ON " + disc + ".id = " + col("discipline_id"))
			if f.Faculty != "" {
				db = db.Where(disc+".faculty = ?", f.Faculty)
			}
			if f.Type != "" {
				db = db.Where(disc+".type = ?", f.Type)
			}
		}

		if f.Difficulty != "" {
			db = db.Where(col("difficulty")+" = ?", f.Difficulty)
		}
		if f.MinRating != nil {
			db = db.Where(col("rating")+" >= ?", *f.MinRating)
		}

		switch f.Order {
		case OrderNewest:
			db = db.Order(col("submitted_on") + " DESC").Order(col("id") + " DESC")
		case OrderOldest:
			db = db.Order(col("submitted_on") + " ASC").Order(col("id") + " ASC")
		default:
			db = db.Order(col("id") + " ASC")
		}
		return db
	}
}
