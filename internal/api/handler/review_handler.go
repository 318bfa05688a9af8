package handler

import (
	"github.com/gin-gonic/gin"

	"course-review/internal/dto"
	"course-review/internal/model"
	"course-review/internal/service"
	"course-review/pkg/response"
)

// ReviewHandler 评价模块 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// Search 按条件检索评价
// GET /api/v1/reviews/:kind?teacher_id=&discipline_id=&difficulty=&rating=&faculty=&type=&time=
func (h *ReviewHandler) Search(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	var q dto.ReviewSearchQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.reviewSvc.Search(c.Request.Context(), kind, &q)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, result)
}

// SubmitTeacherReview 提交教师评价
// POST /api/v1/reviews/teachers
func (h *ReviewHandler) SubmitTeacherReview(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitTeacherReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewSvc.SubmitTeacherReview(c.Request.Context(), userID, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, review)
}

// SubmitDisciplineReview 提交课程评价
// POST /api/v1/reviews/disciplines
func (h *ReviewHandler) SubmitDisciplineReview(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitDisciplineReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewSvc.SubmitDisciplineReview(c.Request.Context(), userID, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, review)
}

// Delete 删除评价（作者本人或管理员）
// DELETE /api/v1/reviews/:kind/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	requester, ok := MustGetRequester(c)
	if !ok {
		return
	}
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewSvc.Delete(c.Request.Context(), kind, id, requester); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, nil)
}

func parseKindParam(c *gin.Context) (model.ReviewKind, bool) {
	kind, err := model.ParseReviewKind(c.Param("kind"))
	if err != nil {
		response.Fail(c, service.ErrUnknownReviewKind)
		return 0, false
	}
	return kind, true
}
