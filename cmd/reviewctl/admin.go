package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"course-review/internal/model"
	"course-review/internal/repository"
	"course-review/internal/validate"
	"course-review/pkg/database"
)

func newCreateAdminCmd(configPath *string) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "创建管理员账号",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("REVIEW_ADMIN_PASSWORD")
			}
			user, err := newAdminUser(username, email, password)
			if err != nil {
				return err
			}

			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			repo := repository.NewRepository(e.db)
			if err := repo.User.Create(cmd.Context(), user); err != nil {
				if database.IsUniqueViolation(err) {
					return fmt.Errorf("用户名或邮箱已存在: %s", database.ConstraintName(err))
				}
				return fmt.Errorf("创建管理员失败: %w", err)
			}

			e.logger.Info("管理员已创建", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "用户名")
	cmd.Flags().StringVar(&email, "email", "", "邮箱")
	cmd.Flags().StringVar(&password, "password", "", "密码（缺省读取 REVIEW_ADMIN_PASSWORD）")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newPromoteCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "将已注册用户提升为管理员",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			return promote(cmd.Context(), repository.NewRepository(e.db), strings.TrimSpace(email), e.logger)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "用户邮箱")
	cmd.MarkFlagRequired("email")
	return cmd
}

// newAdminUser 校验输入并生成管理员记录
func newAdminUser(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, errors.New("用户名与邮箱不能为空")
	}
	if !validate.PasswordStrength(password) {
		return nil, errors.New(validate.PasswordRuleHint)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}, nil
}

func promote(ctx context.Context, repo *repository.Repository, email string, logger *zap.Logger) error {
	user, err := repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("用户不存在: %s", email)
		}
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if user.IsAdmin() {
		logger.Info("用户已是管理员", zap.Int64("user_id", user.ID))
		return nil
	}

	if err := repo.User.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return fmt.Errorf("更新用户角色失败: %w", err)
	}
	logger.Info("用户已提升为管理员", zap.Int64("user_id", user.ID))
	return nil
}
