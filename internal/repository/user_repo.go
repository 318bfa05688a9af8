package repository

import (
	"context"

	"gorm.io/gorm"

	"course-review/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailExists 邮箱是否已注册
	EmailExists(ctx context.Context, email string) (bool, error)
	// UsernameTaken 用户名是否被 exceptID 以外的用户占用；exceptID 为 0 时检查全部用户
	UsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error)
	// UpdateCredentials 只更新非空的用户名与密码哈希；用户不存在时返回 gorm.ErrRecordNotFound
	UpdateCredentials(ctx context.Context, id int64, username, passwordHash string) error
	SetRole(ctx context.Context, id int64, role string) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) UsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *userRepo) UpdateCredentials(ctx context.Context, id int64, username, passwordHash string) error {
	fields := map[string]interface{}{}
	if username != "" {
		fields["username"] = username
	}
	if passwordHash != "" {
		fields["password_hash"] = passwordHash
	}
	if len(fields) == 0 {
		return nil
	}
	return r.updateFields(ctx, id, fields)
}

func (r *userRepo) SetRole(ctx context.Context, id int64, role string) error {
	return r.updateFields(ctx, id, map[string]interface{}{"role": role})
}

func (r *userRepo) updateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
