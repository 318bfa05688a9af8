package handler

import "course-review/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Catalog *CatalogHandler
	Review  *ReviewHandler
	Ranking *RankingHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Profile: NewProfileHandler(svc.Profile),
		Catalog: NewCatalogHandler(svc.Teacher, svc.Discipline),
		Review:  NewReviewHandler(svc.Review),
		Ranking: NewRankingHandler(svc.Ranking),
		Export:  NewExportHandler(svc.Export),
	}
}
