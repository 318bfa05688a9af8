package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Teacher      TeacherRepository
	Discipline   DisciplineRepository
	Review       ReviewRepository
	Ranking      RankingRepository
	Verification PendingVerificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Teacher:      NewTeacherRepo(db),
		Discipline:   NewDisciplineRepo(db),
		Review:       NewReviewRepo(db),
		Ranking:      NewRankingRepo(db),
		Verification: NewPendingVerificationRepo(db),
	}
}

// BeginTx 开启事务
// 未绑定数据库连接的聚合（单元测试中由 mock 组装）返回 nil 事务，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合
// tx 为 nil 时原样返回，便于 mock 场景复用同一套调用流程
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
