package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-review/internal/dto"
	"course-review/internal/model"
	"course-review/internal/repository"
)

// DisciplineService 课程业务接口
type DisciplineService interface {
	List(ctx context.Context) ([]dto.DisciplineResponse, error)
	Get(ctx context.Context, id int64) (*dto.DisciplineResponse, error)
	Create(ctx context.Context, req *dto.CreateDisciplineRequest) (*dto.DisciplineResponse, error)
	Delete(ctx context.Context, id int64) error
}

type disciplineService struct {
	repo   *repository.Repository
	cache  RankingCache
	logger *zap.Logger
}

// NewDisciplineService 创建 DisciplineService 实例
func NewDisciplineService(repo *repository.Repository, cache RankingCache, logger *zap.Logger) DisciplineService {
	return &disciplineService{repo: repo, cache: cache, logger: logger}
}

func (s *disciplineService) List(ctx context.Context) ([]dto.DisciplineResponse, error) {
	disciplines, err := s.repo.Discipline.List(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.DisciplineResponse, len(disciplines))
	for i := range disciplines {
		out[i] = toDisciplineResponse(&disciplines[i])
	}
	return out, nil
}

func (s *disciplineService) Get(ctx context.Context, id int64) (*dto.DisciplineResponse, error) {
	discipline, err := s.repo.Discipline.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisciplineNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("discipline_id", id), zap.Error(err))
		return nil, err
	}

	avg, err := s.repo.Ranking.Average(ctx, model.ReviewKindDiscipline, id)
	if err != nil {
		s.logger.Error("计算课程平均分失败", zap.Int64("discipline_id", id), zap.Error(err))
		return nil, err
	}

	resp := toDisciplineResponse(discipline)
	resp.AverageRating = &avg
	return &resp, nil
}

func (s *disciplineService) Create(ctx context.Context, req *dto.CreateDisciplineRequest) (*dto.DisciplineResponse, error) {
	discipline := &model.Discipline{
		Name:    strings.TrimSpace(req.Name),
		Faculty: strings.TrimSpace(req.Faculty),
		Type:    strings.TrimSpace(req.Type),
	}
	err := withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Discipline.Create(ctx, discipline); err != nil {
			s.logger.Error("创建课程失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateRankings(ctx, s.cache, s.logger)

	resp := toDisciplineResponse(discipline)
	return &resp, nil
}

// Delete 删除课程，授课关系与两类评价随之级联删除
func (s *disciplineService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Discipline.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDisciplineNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("discipline_id", id), zap.Error(err))
		return err
	}

	err := withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Discipline.Delete(ctx, id); err != nil {
			s.logger.Error("删除课程失败", zap.Int64("discipline_id", id), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateRankings(ctx, s.cache, s.logger)
	return nil
}
