package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RankingCache 排行榜缓存，由 pkg/redis.Client 实现；为 nil 时直接查询数据库
type RankingCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	// Generation 当前缓存代数；缓存键包含代数，写入方递增代数即令旧条目失效
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) error
}

// TokenBlacklist Token 黑名单，由 pkg/redis.Client 实现；为 nil 时登出不吊销 Token
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Notifier 验证码投递
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, purpose, code string) error
}

// logNotifier 将验证码写入日志，供本地开发与未接入邮件服务的部署使用
type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建写日志的 Notifier
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendVerificationCode(_ context.Context, email, purpose, code string) error {
	n.logger.Info("验证码已生成",
		zap.String("email", email),
		zap.String("purpose", purpose),
		zap.String("code", code),
	)
	return nil
}
