package handler

import (
	"github.com/gin-gonic/gin"

	"course-review/internal/dto"
	"course-review/internal/model"
	"course-review/internal/service"
	"course-review/pkg/response"
)

// RankingHandler 排行榜 HTTP 处理器
type RankingHandler struct {
	rankingSvc service.RankingService
}

// NewRankingHandler 创建 RankingHandler
func NewRankingHandler(rankingSvc service.RankingService) *RankingHandler {
	return &RankingHandler{rankingSvc: rankingSvc}
}

// TopRanked 平均分排行榜，kind 缺省为 teacher，limit 缺省取配置默认值
// GET /api/v1/rankings?kind=teacher|discipline&limit=n
func (h *RankingHandler) TopRanked(c *gin.Context) {
	var q dto.RankingQuery
	if !bindQuery(c, &q) {
		return
	}

	kind := model.ReviewKindTeacher
	if q.Kind != "" {
		var err error
		if kind, err = model.ParseReviewKind(q.Kind); err != nil {
			response.Fail(c, service.ErrUnknownReviewKind)
			return
		}
	}

	result, err := h.rankingSvc.TopRanked(c.Request.Context(), kind, q.Limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, result)
}
