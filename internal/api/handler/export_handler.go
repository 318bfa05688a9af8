package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"course-review/internal/model"
	"course-review/internal/service"
	"course-review/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRankings 导出排行榜
// GET /api/v1/export/rankings?kind=teacher&kind=discipline（缺省导出全部）
func (h *ExportHandler) ExportRankings(c *gin.Context) {
	var kinds []model.ReviewKind
	seen := make(map[model.ReviewKind]bool)
	for _, raw := range c.QueryArray("kind") {
		kind, err := model.ParseReviewKind(raw)
		if err != nil {
			response.Fail(c, service.ErrUnknownReviewKind)
			return
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}

	buf, filename, err := h.exportSvc.ExportRankings(c.Request.Context(), kinds)
	if err != nil {
		response.Fail(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
