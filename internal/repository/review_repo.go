package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-review/internal/model"
)

// ReviewRepository 评价数据访问接口（教师评价与课程评价）
type ReviewRepository interface {
	CreateTeacherReview(ctx context.Context, review *model.TeacherReview) error
	CreateDisciplineReview(ctx context.Context, review *model.DisciplineReview) error
	GetTeacherReview(ctx context.Context, id int64) (*model.TeacherReview, error)
	GetDisciplineReview(ctx context.Context, id int64) (*model.DisciplineReview, error)
	DeleteTeacherReview(ctx context.Context, id int64) error
	DeleteDisciplineReview(ctx context.Context, id int64) error
	SearchTeacherReviews(ctx context.Context, filter ReviewFilter) ([]model.TeacherReview, error)
	SearchDisciplineReviews(ctx context.Context, filter ReviewFilter) ([]model.DisciplineReview, error)
	ListTeacherReviewsByUser(ctx context.Context, userID int64) ([]model.TeacherReview, error)
	ListDisciplineReviewsByUser(ctx context.Context, userID int64) ([]model.DisciplineReview, error)
}

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo 创建 ReviewRepository 实例
func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

// ────────────────────── Create ──────────────────────

func (r *reviewRepo) CreateTeacherReview(ctx context.Context, review *model.TeacherReview) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepo) CreateDisciplineReview(ctx context.Context, review *model.DisciplineReview) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

// ────────────────────── Get ──────────────────────

func (r *reviewRepo) GetTeacherReview(ctx context.Context, id int64) (*model.TeacherReview, error) {
	var review model.TeacherReview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetDisciplineReview(ctx context.Context, id int64) (*model.DisciplineReview, error) {
	var review model.DisciplineReview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ────────────────────── Delete ──────────────────────

func (r *reviewRepo) DeleteTeacherReview(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TeacherReview{}).Error
}

func (r *reviewRepo) DeleteDisciplineReview(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DisciplineReview{}).Error
}

// ────────────────────── Search ──────────────────────

func (r *reviewRepo) SearchTeacherReviews(ctx context.Context, filter ReviewFilter) ([]model.TeacherReview, error) {
	reviews := []model.TeacherReview{}
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope(model.ReviewKindTeacher)).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) SearchDisciplineReviews(ctx context.Context, filter ReviewFilter) ([]model.DisciplineReview, error) {
	reviews := []model.DisciplineReview{}
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope(model.ReviewKindDiscipline)).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) ListTeacherReviewsByUser(ctx context.Context, userID int64) ([]model.TeacherReview, error) {
	reviews := []model.TeacherReview{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_on DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) ListDisciplineReviewsByUser(ctx context.Context, userID int64) ([]model.DisciplineReview, error) {
	reviews := []model.DisciplineReview{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_on DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}
