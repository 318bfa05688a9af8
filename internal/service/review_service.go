package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-review/internal/dto"
	"course-review/internal/model"
	"course-review/internal/repository"
)

// Requester 发起操作的当前用户
type Requester struct {
	UserID int64
	Role   string
}

// IsAdmin 是否为管理员
func (r Requester) IsAdmin() bool { return r.Role == model.RoleAdmin }

// ReviewService 评价业务接口
type ReviewService interface {
	// Search 按条件检索某一类评价
	Search(ctx context.Context, kind model.ReviewKind, q *dto.ReviewSearchQuery) (*dto.ReviewListResponse, error)
	SubmitTeacherReview(ctx context.Context, userID int64, req *dto.SubmitTeacherReviewRequest) (*dto.TeacherReviewResponse, error)
	SubmitDisciplineReview(ctx context.Context, userID int64, req *dto.SubmitDisciplineReviewRequest) (*dto.DisciplineReviewResponse, error)
	// Delete 删除评价，仅作者本人或管理员可操作
	Delete(ctx context.Context, kind model.ReviewKind, reviewID int64, requester Requester) error
	// ValidateTeacherReview 判断教师是否承担该课程；任一 id 不存在时返回 false
	ValidateTeacherReview(ctx context.Context, teacherID, disciplineID int64) (bool, error)
}

type reviewService struct {
	repo   *repository.Repository
	cache  RankingCache
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, cache RankingCache, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Search ──────────────────────

func (s *reviewService) Search(ctx context.Context, kind model.ReviewKind, q *dto.ReviewSearchQuery) (*dto.ReviewListResponse, error) {
	filter, err := BuildReviewFilter(kind, q)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReviewListResponse{Kind: kind.String()}
	switch kind {
	case model.ReviewKindTeacher:
		reviews, err := s.repo.Review.SearchTeacherReviews(ctx, filter)
		if err != nil {
			s.logger.Error("检索教师评价失败", zap.Error(err))
			return nil, err
		}
		resp.Items, resp.Total = toTeacherReviewResponses(reviews), len(reviews)
	case model.ReviewKindDiscipline:
		reviews, err := s.repo.Review.SearchDisciplineReviews(ctx, filter)
		if err != nil {
			s.logger.Error("检索课程评价失败", zap.Error(err))
			return nil, err
		}
		resp.Items, resp.Total = toDisciplineReviewResponses(reviews), len(reviews)
	default:
		return nil, ErrUnknownReviewKind
	}
	return resp, nil
}

// BuildReviewFilter 将字符串形式的检索参数转换为 ReviewFilter
// 空串视为未指定；id 与评分无法解析为整数时返回 ErrMalformedFilter；
// time 仅识别 new / old，其余取值不排序
func BuildReviewFilter(kind model.ReviewKind, q *dto.ReviewSearchQuery) (repository.ReviewFilter, error) {
	var f repository.ReviewFilter
	if q == nil {
		return f, nil
	}

	if v := strings.TrimSpace(q.TeacherID); v != "" && kind == model.ReviewKindTeacher {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("teacher_id=%q: %w", v, ErrMalformedFilter)
		}
		f.TeacherID = &id
	}
	if v := strings.TrimSpace(q.DisciplineID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("discipline_id=%q: %w", v, ErrMalformedFilter)
		}
		f.DisciplineID = &id
	}
	if v := strings.TrimSpace(q.Rating); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("rating=%q: %w", v, ErrMalformedFilter)
		}
		f.MinRating = &r
	}

	f.Difficulty = q.Difficulty
	f.Faculty = q.Faculty
	f.Type = q.Type

	switch repository.TimeOrder(q.Time) {
	case repository.OrderNewest, repository.OrderOldest:
		f.Order = repository.TimeOrder(q.Time)
	}
	return f, nil
}

// ────────────────────── Submit ──────────────────────

func (s *reviewService) SubmitTeacherReview(
	ctx context.Context, userID int64, req *dto.SubmitTeacherReviewRequest,
) (*dto.TeacherReviewResponse, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	// 1. 教师与课程必须存在（先于授课关系校验报告）
	teacher, err := s.repo.Teacher.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.Int64("teacher_id", req.TeacherID), zap.Error(err))
		return nil, err
	}
	discipline, err := s.repo.Discipline.GetByID(ctx, req.DisciplineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisciplineNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("discipline_id", req.DisciplineID), zap.Error(err))
		return nil, err
	}

	// 2. 授课关系校验，失败时不写入任何数据
	ok, err := s.ValidateTeacherReview(ctx, teacher.ID, discipline.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTeacherNotAssigned
	}

	// 3. 写入名称快照
	review := &model.TeacherReview{
		UserID:         userID,
		TeacherID:      teacher.ID,
		DisciplineID:   discipline.ID,
		TeacherName:    teacher.Name,
		TeacherSurname: teacher.Surname,
		DisciplineName: discipline.Name,
		Difficulty:     strings.TrimSpace(req.Difficulty),
		Rating:         req.Rating,
		Feedback:       strings.TrimSpace(req.Feedback),
	}

	err = withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Review.CreateTeacherReview(ctx, review); err != nil {
			s.logger.Error("创建教师评价失败",
				zap.Int64("user_id", userID), zap.Int64("teacher_id", teacher.ID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateRankings(ctx, s.cache, s.logger)

	resp := toTeacherReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) SubmitDisciplineReview(
	ctx context.Context, userID int64, req *dto.SubmitDisciplineReviewRequest,
) (*dto.DisciplineReviewResponse, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	discipline, err := s.repo.Discipline.GetByID(ctx, req.DisciplineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisciplineNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("discipline_id", req.DisciplineID), zap.Error(err))
		return nil, err
	}

	review := &model.DisciplineReview{
		UserID:         userID,
		DisciplineID:   discipline.ID,
		DisciplineName: discipline.Name,
		Difficulty:     strings.TrimSpace(req.Difficulty),
		Rating:         req.Rating,
		Feedback:       strings.TrimSpace(req.Feedback),
	}

	err = withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Review.CreateDisciplineReview(ctx, review); err != nil {
			s.logger.Error("创建课程评价失败",
				zap.Int64("user_id", userID), zap.Int64("discipline_id", discipline.ID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateRankings(ctx, s.cache, s.logger)

	resp := toDisciplineReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) ValidateTeacherReview(ctx context.Context, teacherID, disciplineID int64) (bool, error) {
	ok, err := s.repo.Teacher.IsAssigned(ctx, teacherID, disciplineID)
	if err != nil {
		s.logger.Error("校验授课关系失败",
			zap.Int64("teacher_id", teacherID), zap.Int64("discipline_id", disciplineID), zap.Error(err))
		return false, err
	}
	return ok, nil
}

// ────────────────────── Delete ──────────────────────

func (s *reviewService) Delete(ctx context.Context, kind model.ReviewKind, reviewID int64, requester Requester) error {
	var ownerID int64
	var err error
	switch kind {
	case model.ReviewKindTeacher:
		var review *model.TeacherReview
		if review, err = s.repo.Review.GetTeacherReview(ctx, reviewID); err == nil {
			ownerID = review.UserID
		}
	case model.ReviewKindDiscipline:
		var review *model.DisciplineReview
		if review, err = s.repo.Review.GetDisciplineReview(ctx, reviewID); err == nil {
			ownerID = review.UserID
		}
	default:
		return ErrUnknownReviewKind
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		s.logger.Error("查询评价失败", zap.String("kind", kind.String()), zap.Int64("review_id", reviewID), zap.Error(err))
		return err
	}

	if ownerID != requester.UserID && !requester.IsAdmin() {
		return ErrNotReviewOwner
	}

	err = withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		var err error
		if kind == model.ReviewKindTeacher {
			err = txRepo.Review.DeleteTeacherReview(ctx, reviewID)
		} else {
			err = txRepo.Review.DeleteDisciplineReview(ctx, reviewID)
		}
		if err != nil {
			s.logger.Error("删除评价失败", zap.String("kind", kind.String()), zap.Int64("review_id", reviewID), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return err
	}

	invalidateRankings(ctx, s.cache, s.logger)
	return nil
}

// ── 内部辅助方法 ──

func checkRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return ErrRatingOutOfRange
	}
	return nil
}
