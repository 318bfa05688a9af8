package repository

import (
	"context"

	"gorm.io/gorm"

	"course-review/internal/model"
)

// DisciplineRepository 课程数据访问接口
type DisciplineRepository interface {
	Create(ctx context.Context, discipline *model.Discipline) error
	GetByID(ctx context.Context, id int64) (*model.Discipline, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Discipline, error)
	// GetWithReviews 预加载课程的全部评价，供内存路径计算平均分
	GetWithReviews(ctx context.Context, id int64) (*model.Discipline, error)
	List(ctx context.Context) ([]model.Discipline, error)
	Delete(ctx context.Context, id int64) error
}

type disciplineRepo struct {
	db *gorm.DB
}

// NewDisciplineRepo 创建 DisciplineRepository 实例
func NewDisciplineRepo(db *gorm.DB) DisciplineRepository {
	return &disciplineRepo{db: db}
}

func (r *disciplineRepo) Create(ctx context.Context, discipline *model.Discipline) error {
	return r.db.WithContext(ctx).Omit("Teachers.*").Create(discipline).Error
}

func (r *disciplineRepo) GetByID(ctx context.Context, id int64) (*model.Discipline, error) {
	var discipline model.Discipline
	err := r.db.WithContext(ctx).
		Preload("Teachers", func(db *gorm.DB) *gorm.DB {
			return db.Order("teachers.surname ASC, teachers.id ASC")
		}).
		Where("id = ?", id).
		First(&discipline).Error
	if err != nil {
		return nil, err
	}
	return &discipline, nil
}

func (r *disciplineRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Discipline, error) {
	var disciplines []model.Discipline
	if len(ids) == 0 {
		return disciplines, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&disciplines).Error
	return disciplines, err
}

func (r *disciplineRepo) GetWithReviews(ctx context.Context, id int64) (*model.Discipline, error) {
	var discipline model.Discipline
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		Where("id = ?", id).
		First(&discipline).Error
	if err != nil {
		return nil, err
	}
	return &discipline, nil
}

func (r *disciplineRepo) List(ctx context.Context) ([]model.Discipline, error) {
	var disciplines []model.Discipline
	err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&disciplines).Error
	return disciplines, err
}

// Delete 删除课程；授课关系与两类评价由外键级联删除
func (r *disciplineRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Discipline{}).Error
}
