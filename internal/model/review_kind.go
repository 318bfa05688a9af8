package model

import "fmt"

// ReviewKind 评价类别：教师评价与课程评价互斥
type ReviewKind int

const (
	ReviewKindTeacher ReviewKind = iota
	ReviewKindDiscipline
)

// ParseReviewKind 解析外部传入的评价类别
func ParseReviewKind(s string) (ReviewKind, error) {
	switch s {
	case "teacher", "teachers":
		return ReviewKindTeacher, nil
	case "discipline", "disciplines":
		return ReviewKindDiscipline, nil
	default:
		return 0, fmt.Errorf("未知的评价类别 %q", s)
	}
}

func (k ReviewKind) String() string {
	if k == ReviewKindDiscipline {
		return "discipline"
	}
	return "teacher"
}

// ReviewTable 该类别评价所在的表
func (k ReviewKind) ReviewTable() string {
	if k == ReviewKindDiscipline {
		return DisciplineReview{}.TableName()
	}
	return TeacherReview{}.TableName()
}

// EntityTable 该类别被评价实体所在的表
func (k ReviewKind) EntityTable() string {
	if k == ReviewKindDiscipline {
		return Discipline{}.TableName()
	}
	return Teacher{}.TableName()
}

// EntityForeignKey 评价表中指向被评价实体的外键列
func (k ReviewKind) EntityForeignKey() string {
	if k == ReviewKindDiscipline {
		return "discipline_id"
	}
	return "teacher_id"
}
