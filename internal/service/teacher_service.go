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

// TeacherService 教师业务接口
type TeacherService interface {
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	Get(ctx context.Context, id int64) (*dto.TeacherResponse, error)
	Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error)
	SetDisciplines(ctx context.Context, id int64, req *dto.SetTeacherDisciplinesRequest) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, id int64) error
}

type teacherService struct {
	repo   *repository.Repository
	cache  RankingCache
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, cache RankingCache, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Query ──────────────────────

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("查询教师列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.TeacherResponse, len(teachers))
	for i := range teachers {
		out[i] = toTeacherResponse(&teachers[i])
	}
	return out, nil
}

func (s *teacherService) Get(ctx context.Context, id int64) (*dto.TeacherResponse, error) {
	teacher, err := s.getTeacher(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	avg, err := s.repo.Ranking.Average(ctx, model.ReviewKindTeacher, id)
	if err != nil {
		s.logger.Error("计算教师平均分失败", zap.Int64("teacher_id", id), zap.Error(err))
		return nil, err
	}

	resp := toTeacherResponse(teacher)
	resp.AverageRating = &avg
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	disciplines, err := resolveDisciplines(ctx, s.repo, req.DisciplineIDs)
	if err != nil {
		if !errors.Is(err, ErrDisciplineNotFound) {
			s.logger.Error("查询课程失败", zap.Error(err))
		}
		return nil, err
	}

	teacher := &model.Teacher{
		Name:    strings.TrimSpace(req.Name),
		Surname: strings.TrimSpace(req.Surname),
	}

	err = withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Teacher.Create(ctx, teacher); err != nil {
			s.logger.Error("创建教师失败", zap.Error(err))
			return err
		}
		if len(disciplines) > 0 {
			if err := txRepo.Teacher.SetDisciplines(ctx, teacher, disciplines); err != nil {
				s.logger.Error("建立授课关系失败", zap.Int64("teacher_id", teacher.ID), zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	teacher.Disciplines = disciplines
	invalidateRankings(ctx, s.cache, s.logger)

	resp := toTeacherResponse(teacher)
	return &resp, nil
}

// ────────────────────── SetDisciplines ──────────────────────

func (s *teacherService) SetDisciplines(ctx context.Context, id int64, req *dto.SetTeacherDisciplinesRequest) (*dto.TeacherResponse, error) {
	teacher, err := s.getTeacher(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	disciplines, err := resolveDisciplines(ctx, s.repo, req.DisciplineIDs)
	if err != nil {
		if !errors.Is(err, ErrDisciplineNotFound) {
			s.logger.Error("查询课程失败", zap.Error(err))
		}
		return nil, err
	}

	err = withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Teacher.SetDisciplines(ctx, teacher, disciplines); err != nil {
			s.logger.Error("更新授课关系失败", zap.Int64("teacher_id", id), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	teacher.Disciplines = disciplines
	resp := toTeacherResponse(teacher)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *teacherService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getTeacher(ctx, s.repo, id); err != nil {
		return err
	}

	err := withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Teacher.Delete(ctx, id); err != nil {
			s.logger.Error("删除教师失败", zap.Int64("teacher_id", id), zap.Error(err))
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

// ── 内部辅助方法 ──

func (s *teacherService) getTeacher(ctx context.Context, repo *repository.Repository, id int64) (*model.Teacher, error) {
	teacher, err := repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.Int64("teacher_id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// resolveDisciplines 按 id 批量加载课程，任一 id 不存在即返回 ErrDisciplineNotFound
func resolveDisciplines(ctx context.Context, repo *repository.Repository, ids []int64) ([]model.Discipline, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	disciplines, err := repo.Discipline.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(disciplines) != len(unique) {
		return nil, ErrDisciplineNotFound
	}
	return disciplines, nil
}
