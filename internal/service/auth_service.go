package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"course-review/config"
	"course-review/internal/dto"
	"course-review/internal/model"
	"course-review/internal/repository"
	"course-review/internal/validate"
	"course-review/pkg/database"
	"course-review/pkg/jwt"
)

// AuthService 认证业务接口
type AuthService interface {
	// Signup 暂存注册资料并下发验证码
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.VerificationResponse, error)
	// ForgotPassword 暂存新密码并下发验证码
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.VerificationResponse, error)
	// Verify 校验验证码并完成注册或密码重置
	Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.VerifyResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	notifier  Notifier
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	notifier Notifier,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		notifier:  notifier,
		logger:    logger,
	}
}

// ────────────────────── Signup ──────────────────────

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.VerificationResponse, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	// 1. 邮箱与用户名唯一
	if taken, err := s.repo.User.EmailExists(ctx, email); err != nil {
		s.logger.Error("查询用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.repo.User.UsernameTaken(ctx, username, 0); err != nil {
		s.logger.Error("查询用户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	// 2. 密码强度
	if !validate.PasswordStrength(req.Password) {
		return nil, ErrWeakPassword
	}

	return s.startVerification(ctx, model.VerificationPurposeSignup, email, &username, req.Password)
}

// ────────────────────── ForgotPassword ──────────────────────

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.VerificationResponse, error) {
	email := normalizeEmail(req.Email)

	registered, err := s.repo.User.EmailExists(ctx, email)
	if err != nil {
		s.logger.Error("查询用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if !registered {
		return nil, ErrEmailNotRegistered
	}

	if !validate.PasswordStrength(req.NewPassword) {
		return nil, ErrWeakPassword
	}

	return s.startVerification(ctx, model.VerificationPurposePasswordReset, email, nil, req.NewPassword)
}

// startVerification 生成验证码、写入待验证记录并投递
// 同一邮箱同一用途下未完成的旧记录随之失效
func (s *authService) startVerification(
	ctx context.Context, purpose, email string, username *string, password string,
) (*dto.VerificationResponse, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	code, err := generateVerificationCode()
	if err != nil {
		s.logger.Error("生成验证码失败", zap.Error(err))
		return nil, err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("验证码哈希失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Verification.ExpirePending(ctx, email, purpose); err != nil {
		s.logger.Error("作废旧验证记录失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	pending := &model.PendingVerification{
		Purpose:      purpose,
		Email:        email,
		Username:     username,
		PasswordHash: string(passwordHash),
		CodeHash:     string(codeHash),
		Status:       model.VerificationStatusPending,
		ExpiresAt:    time.Now().Add(s.cfg.Verification.CodeTTL),
	}
	if err := s.repo.Verification.Create(ctx, pending); err != nil {
		s.logger.Error("创建验证记录失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	if err := s.notifier.SendVerificationCode(ctx, email, purpose, code); err != nil {
		s.logger.Error("投递验证码失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	return &dto.VerificationResponse{
		VerificationID: pending.VerificationID,
		Purpose:        purpose,
		ExpiresAt:      pending.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Verify ──────────────────────

func (s *authService) Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.VerifyResponse, error) {
	var (
		pending  *model.PendingVerification
		user     *model.User
		rejected error // 超时或验证码错误：状态变更需要提交，再返回给调用方
	)
	err := withTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		var err error

		// 1. 行级锁读取待验证记录
		pending, err = txRepo.Verification.GetByIDForUpdate(ctx, req.VerificationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVerificationNotFound
			}
			s.logger.Error("查询验证记录失败", zap.String("id", req.VerificationID), zap.Error(err))
			return err
		}

		// 2. 校验状态与验证码
		if rejected, err = s.checkCode(ctx, txRepo, pending, req.Code); err != nil || rejected != nil {
			return err
		}

		// 3. 落地注册或密码重置
		user, err = s.commitVerification(ctx, txRepo, pending)
		return err
	})
	if err != nil {
		// 邮箱或用户名已被占用等结果不会因重试改变，作废该记录
		if pending != nil && isPermanentCommitFailure(err) {
			s.expireVerification(ctx, pending)
		}
		return nil, err
	}
	if rejected != nil {
		return nil, rejected
	}

	resp := &dto.VerifyResponse{Purpose: pending.Purpose}
	if pending.Purpose == model.VerificationPurposeSignup {
		tokens, err := s.issueTokens(user)
		if err != nil {
			return nil, err
		}
		resp.Tokens = tokens
	}
	return resp, nil
}

// checkCode 校验记录状态与验证码；rejection 为拒绝原因，err 为写入失败
func (s *authService) checkCode(
	ctx context.Context, txRepo *repository.Repository, pending *model.PendingVerification, code string,
) (rejection, err error) {
	// 已完成或已作废
	if pending.Status != model.VerificationStatusPending {
		return ErrVerificationExpired, nil
	}

	if pending.IsExpired(time.Now()) {
		pending.Status = model.VerificationStatusExpired
		if err = txRepo.Verification.Update(ctx, pending); err != nil {
			s.logger.Error("更新验证记录失败", zap.Error(err))
			return nil, err
		}
		return ErrVerificationExpired, nil
	}

	// 错误次数达到上限后作废
	if bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(code)) != nil {
		pending.Attempts++
		if pending.Attempts >= s.cfg.Verification.MaxAttempts {
			pending.Status = model.VerificationStatusExpired
		}
		if err = txRepo.Verification.Update(ctx, pending); err != nil {
			s.logger.Error("更新验证记录失败", zap.Error(err))
			return nil, err
		}
		if pending.Status == model.VerificationStatusExpired {
			return ErrVerificationExpired, nil
		}
		return ErrInvalidCode, nil
	}
	return nil, nil
}

// commitVerification pending → verified → committed，并按用途创建用户或重置密码
func (s *authService) commitVerification(
	ctx context.Context, txRepo *repository.Repository, pending *model.PendingVerification,
) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch pending.Purpose {
	case model.VerificationPurposeSignup:
		user, err = s.commitSignup(ctx, txRepo, pending)
	case model.VerificationPurposePasswordReset:
		user, err = s.commitPasswordReset(ctx, txRepo, pending)
	default:
		err = fmt.Errorf("未知的验证用途 %q", pending.Purpose)
	}
	if err != nil {
		return nil, err
	}

	for _, next := range []string{model.VerificationStatusVerified, model.VerificationStatusCommitted} {
		if !pending.CanTransition(next) {
			return nil, ErrVerificationExpired
		}
		pending.Status = next
	}
	if err := txRepo.Verification.Update(ctx, pending); err != nil {
		s.logger.Error("更新验证记录失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func isPermanentCommitFailure(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrEmailNotRegistered)
}

// expireVerification 在事务回滚后单独作废记录，写入失败只记录日志
func (s *authService) expireVerification(ctx context.Context, pending *model.PendingVerification) {
	pending.Status = model.VerificationStatusExpired
	if err := s.repo.Verification.Update(ctx, pending); err != nil {
		s.logger.Error("作废验证记录失败", zap.String("id", pending.VerificationID), zap.Error(err))
	}
}

func (s *authService) commitSignup(
	ctx context.Context, txRepo *repository.Repository, pending *model.PendingVerification,
) (*model.User, error) {
	user := &model.User{
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         model.RoleMember,
	}
	if pending.Username != nil {
		user.Username = *pending.Username
	}

	if err := txRepo.User.Create(ctx, user); err != nil {
		// 验证期间邮箱或用户名被他人抢先注册
		if database.IsUniqueViolation(err) {
			if database.ConstraintName(err) == "users_username_key" {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建用户失败", zap.String("email", user.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册完成", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *authService) commitPasswordReset(
	ctx context.Context, txRepo *repository.Repository, pending *model.PendingVerification,
) (*model.User, error) {
	user, err := txRepo.User.GetByEmail(ctx, pending.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailNotRegistered
		}
		s.logger.Error("查询用户失败", zap.String("email", pending.Email), zap.Error(err))
		return nil, err
	}

	user.PasswordHash = pending.PasswordHash
	if err := txRepo.User.UpdateCredentials(ctx, user.ID, "", user.PasswordHash); err != nil {
		s.logger.Error("重置密码失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("密码已重置", zap.Int64("user_id", user.ID))
	return user, nil
}

// ────────────────────── Login / Refresh / Logout ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenInvalid
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("查询 Token 黑名单失败", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrTokenInvalid
		}
	}

	// 用户名与角色以数据库为准
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// 旧 Refresh Token 一次性使用
	if s.blacklist != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Warn("吊销旧 Refresh Token 失败", zap.Error(err))
		}
	}
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// generateVerificationCode 生成 6 位数字验证码（含前导零）
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
