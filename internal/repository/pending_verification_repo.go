package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-review/internal/model"
)

// PendingVerificationRepository 待验证记录数据访问接口
type PendingVerificationRepository interface {
	Create(ctx context.Context, v *model.PendingVerification) error
	GetByID(ctx context.Context, id string) (*model.PendingVerification, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询，防止同一验证码被并发提交
	GetByIDForUpdate(ctx context.Context, id string) (*model.PendingVerification, error)
	Update(ctx context.Context, v *model.PendingVerification) error
	// ExpirePending 使同一邮箱、同一用途下尚未完成的旧记录失效
	ExpirePending(ctx context.Context, email, purpose string) error
}

type pendingVerificationRepo struct {
	db *gorm.DB
}

// NewPendingVerificationRepo 创建 PendingVerificationRepository 实例
func NewPendingVerificationRepo(db *gorm.DB) PendingVerificationRepository {
	return &pendingVerificationRepo{db: db}
}

func (r *pendingVerificationRepo) Create(ctx context.Context, v *model.PendingVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *pendingVerificationRepo) GetByID(ctx context.Context, id string) (*model.PendingVerification, error) {
	var v model.PendingVerification
	err := r.db.WithContext(ctx).
		Where("verification_id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByIDForUpdate 必须在已有事务的 *gorm.DB 上调用（通过 Repository.WithTx 注入事务连接）
func (r *pendingVerificationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.PendingVerification, error) {
	var v model.PendingVerification
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("verification_id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *pendingVerificationRepo) Update(ctx context.Context, v *model.PendingVerification) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *pendingVerificationRepo) ExpirePending(ctx context.Context, email, purpose string) error {
	return r.db.WithContext(ctx).
		Model(&model.PendingVerification{}).
		Where("email = ? AND purpose = ? AND status = ?", email, purpose, model.VerificationStatusPending).
		Update("status", model.VerificationStatusExpired).Error
}
