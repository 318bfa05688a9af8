package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-review/config"
	"course-review/internal/dto"
	"course-review/internal/model"
	"course-review/internal/repository"
)

// RankingService 评分聚合业务接口
type RankingService interface {
	// TopRanked 返回某类实体按平均分降序的前 limit 名；limit<=0 取默认值，超过上限按上限截断
	TopRanked(ctx context.Context, kind model.ReviewKind, limit int) (*dto.RankingResponse, error)
	// AverageRating 加载实体的全部评价并在内存中计算平均分
	AverageRating(ctx context.Context, kind model.ReviewKind, id int64) (float64, error)
}

type rankingService struct {
	cfg    *config.ReviewConfig
	repo   *repository.Repository
	cache  RankingCache
	logger *zap.Logger
}

// NewRankingService 创建 RankingService 实例
func NewRankingService(cfg *config.ReviewConfig, repo *repository.Repository, cache RankingCache, logger *zap.Logger) RankingService {
	return &rankingService{cfg: cfg, repo: repo, cache: cache, logger: logger}
}

// ────────────────────── TopRanked ──────────────────────

func (s *rankingService) TopRanked(ctx context.Context, kind model.ReviewKind, limit int) (*dto.RankingResponse, error) {
	limit = s.clampLimit(limit)

	// 1. 读缓存，缓存故障时降级为直接查库
	// 代数在查库前取得：查库期间发生写入时，回写落在已过期的代数上，不会被再次读到
	key := ""
	if s.cache != nil {
		if gen, err := s.cache.Generation(ctx); err != nil {
			s.logger.Warn("读取排行榜缓存代数失败", zap.Error(err))
		} else {
			key = rankingCacheKey(gen, kind, limit)
		}
	}
	if key != "" {
		var cached dto.RankingResponse
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("读取排行榜缓存失败", zap.String("key", key), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	// 2. 数据库聚合
	entities, err := s.repo.Ranking.TopRated(ctx, kind, limit)
	if err != nil {
		s.logger.Error("查询排行榜失败", zap.String("kind", kind.String()), zap.Error(err))
		return nil, err
	}

	resp := &dto.RankingResponse{Kind: kind.String(), Items: make([]dto.RankingItem, len(entities))}
	for i, e := range entities {
		resp.Items[i] = dto.RankingItem{
			Rank:          i + 1,
			ID:            e.ID,
			Name:          e.Name,
			Surname:       e.Surname,
			Faculty:       e.Faculty,
			Type:          e.Type,
			AverageRating: e.Average,
			ReviewCount:   e.ReviewCount,
		}
	}

	// 3. 回写缓存
	if key != "" {
		if err := s.cache.SetJSON(ctx, key, resp, s.cfg.RankingCacheTTL); err != nil {
			s.logger.Warn("写入排行榜缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

func (s *rankingService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.RankingLimit
	}
	if limit > s.cfg.RankingMaxLimit {
		return s.cfg.RankingMaxLimit
	}
	return limit
}

// ────────────────────── AverageRating ──────────────────────

func (s *rankingService) AverageRating(ctx context.Context, kind model.ReviewKind, id int64) (float64, error) {
	switch kind {
	case model.ReviewKindTeacher:
		teacher, err := s.repo.Teacher.GetWithReviews(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrTeacherNotFound
			}
			s.logger.Error("加载教师评价失败", zap.Int64("teacher_id", id), zap.Error(err))
			return 0, err
		}
		return teacher.AverageRating(), nil
	case model.ReviewKindDiscipline:
		discipline, err := s.repo.Discipline.GetWithReviews(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrDisciplineNotFound
			}
			s.logger.Error("加载课程评价失败", zap.Int64("discipline_id", id), zap.Error(err))
			return 0, err
		}
		return discipline.AverageRating(), nil
	default:
		return 0, ErrUnknownReviewKind
	}
}

// ── 缓存辅助 ──

func rankingCacheKey(gen int64, kind model.ReviewKind, limit int) string {
	return fmt.Sprintf("%d:%s:%d", gen, kind, limit)
}

// invalidateRankings 评价或实体变更后递增缓存代数，使全部排行榜缓存失效，失败只记录告警
func invalidateRankings(ctx context.Context, cache RankingCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.BumpGeneration(ctx); err != nil {
		logger.Warn("清除排行榜缓存失败", zap.Error(err))
	}
}
