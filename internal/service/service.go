package service

import (
	"go.uber.org/zap"

	"course-review/config"
	"course-review/internal/repository"
	"course-review/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Profile    ProfileService
	Teacher    TeacherService
	Discipline DisciplineService
	Review     ReviewService
	Ranking    RankingService
	Export     ExportService
}

// Deps 可选的外部依赖；Redis 未启用时 Cache 与 Blacklist 为 nil
type Deps struct {
	Cache     RankingCache
	Blacklist TokenBlacklist
	Notifier  Notifier
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	if deps.Notifier == nil {
		deps.Notifier = NewLogNotifier(logger)
	}
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, deps.Blacklist, deps.Notifier, logger),
		Profile:    NewProfileService(repo, logger),
		Teacher:    NewTeacherService(repo, deps.Cache, logger),
		Discipline: NewDisciplineService(repo, deps.Cache, logger),
		Review:     NewReviewService(repo, deps.Cache, logger),
		Ranking:    NewRankingService(&cfg.Review, repo, deps.Cache, logger),
		Export:     NewExportService(&cfg.Review, repo, logger),
	}
}
