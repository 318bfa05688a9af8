package repository

import (
	"context"

	"gorm.io/gorm"

	"course-review/internal/model"
	"course-review/internal/rating"
)

// RankedEntity 排行榜中的一行：被评价实体及其聚合分数
type RankedEntity struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Surname     string  `json:"surname,omitempty"` // 仅教师
	Faculty     string  `json:"faculty,omitempty"` // 仅课程
	Type        string  `json:"type,omitempty"`    // 仅课程
	Average     float64 `json:"average_rating"`
	ReviewCount int64   `json:"review_count"`
}

// RankingRepository 评分聚合数据访问接口
type RankingRepository interface {
	// TopRated 按平均分降序返回前 limit 个实体，平均分相同时按 id 升序
	TopRated(ctx context.Context, kind model.ReviewKind, limit int) ([]RankedEntity, error)
	// Average 在数据库侧计算单个实体的平均分
	Average(ctx context.Context, kind model.ReviewKind, id int64) (float64, error)
}

type rankingRepo struct {
	db *gorm.DB
}

// NewRankingRepo 创建 RankingRepository 实例
func NewRankingRepo(db *gorm.DB) RankingRepository {
	return &rankingRepo{db: db}
}

func (r *rankingRepo) TopRated(ctx context.Context, kind model.ReviewKind, limit int) ([]RankedEntity, error) {
	entities := []RankedEntity{}
	err := r.db.WithContext(ctx).
		Scopes(topRatedScope(kind, limit)).
		Scan(&entities).Error
	return entities, err
}

func (r *rankingRepo) Average(ctx context.Context, kind model.ReviewKind, id int64) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Table(kind.ReviewTable()+" AS r").
		Select(rating.AvgExpr("r")).
		Where("r."+kind.EntityForeignKey()+" = ?", id).
		Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg, nil
}

// topRatedScope 实体表 LEFT JOIN 评价表，无评价的实体平均分为 0 仍参与排名
func topRatedScope(kind model.ReviewKind, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		cols := "e.id, e.name"
		if kind == model.ReviewKindTeacher {
			cols += ", e.surname"
		} else {
			cols += ", e.faculty, e.type"
		}
		return db.
			Table(kind.EntityTable() + " AS e").
			Select(cols + ", " + rating.AvgExpr("r") + " AS average, COUNT(r.id) AS review_count").
			Joins("LEFT JOIN " + kind.ReviewTable() + " AS r ON r." + kind.EntityForeignKey() + " = e.id").
			Group("e.id").
			Order("average DESC, e.id ASC").
			Limit(limit)
	}
}
