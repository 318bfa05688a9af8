package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"course-review/internal/dto"
	"course-review/internal/repository"
	"course-review/internal/validate"
	"course-review/pkg/database"
)

// ProfileService 个人资料业务接口
type ProfileService interface {
	// Get 返回当前用户信息及其提交的全部评价
	Get(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	// Update 修改用户名和/或密码
	Update(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *profileService) Get(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	teacherReviews, err := s.repo.Review.ListTeacherReviewsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户教师评价失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	disciplineReviews, err := s.repo.Review.ListDisciplineReviewsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户课程评价失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &dto.ProfileResponse{
		User:              toUserResponse(user),
		TeacherReviews:    toTeacherReviewResponses(teacherReviews),
		DisciplineReviews: toDisciplineReviewResponses(disciplineReviews),
	}, nil
}

// ────────────────────── Update ──────────────────────

func (s *profileService) Update(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.NewPassword)

	if username == "" && password == "" {
		return nil, ErrNoChanges
	}
	if password != "" && !validate.PasswordStrength(password) {
		return nil, ErrWeakPassword
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	var newUsername, newHash string
	if username != "" && username != user.Username {
		taken, err := s.repo.User.UsernameTaken(ctx, username, userID)
		if err != nil {
			s.logger.Error("查询用户名失败", zap.String("username", username), zap.Error(err))
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		newUsername = username
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		newHash = string(hash)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := s.repo.WithTx(tx).User.UpdateCredentials(ctx, userID, newUsername, newHash); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("更新用户失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	resp := toUserResponse(user)
	return &resp, nil
}
