package repository

import (
	"context"

	"gorm.io/gorm"

	"course-review/internal/model"
)

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	// GetWithReviews 预加载教师的全部评价，供内存路径计算平均分
	GetWithReviews(ctx context.Context, id int64) (*model.Teacher, error)
	List(ctx context.Context) ([]model.Teacher, error)
	Delete(ctx context.Context, id int64) error
	// IsAssigned 判断 (teacher, discipline) 是否存在授课关系，任一 id 不存在时返回 false
	IsAssigned(ctx context.Context, teacherID, disciplineID int64) (bool, error)
	// SetDisciplines 用给定课程集合整体替换教师的授课关系
	SetDisciplines(ctx context.Context, teacher *model.Teacher, disciplines []model.Discipline) error
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Omit("Disciplines.*").Create(teacher).Error
}

func (r *teacherRepo) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Preload("Disciplines", func(db *gorm.DB) *gorm.DB {
			return db.Order("disciplines.name ASC, disciplines.id ASC")
		}).
		Where("id = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) GetWithReviews(ctx context.Context, id int64) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		Where("id = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) List(ctx context.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := r.db.WithContext(ctx).
		Preload("Disciplines", func(db *gorm.DB) *gorm.DB {
			return db.Order("disciplines.name ASC, disciplines.id ASC")
		}).
		Order("surname ASC, name ASC, id ASC").
		Find(&teachers).Error
	return teachers, err
}

// Delete 删除教师；授课关系与评价由外键级联删除
func (r *teacherRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Teacher{}).Error
}

func (r *teacherRepo) IsAssigned(ctx context.Context, teacherID, disciplineID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("teacher_disciplines").
		Where("teacher_id = ? AND discipline_id = ?", teacherID, disciplineID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *teacherRepo) SetDisciplines(ctx context.Context, teacher *model.Teacher, disciplines []model.Discipline) error {
	assoc := r.db.WithContext(ctx).Model(teacher).Association("Disciplines")
	if len(disciplines) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(disciplines)
}
