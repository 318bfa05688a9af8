package handler

import (
	"github.com/gin-gonic/gin"

	"course-review/internal/dto"
	"course-review/internal/service"
	"course-review/pkg/response"
)

// CatalogHandler 教师与课程 HTTP 处理器
type CatalogHandler struct {
	teacherSvc    service.TeacherService
	disciplineSvc service.DisciplineService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(teacherSvc service.TeacherService, disciplineSvc service.DisciplineService) *CatalogHandler {
	return &CatalogHandler{teacherSvc: teacherSvc, disciplineSvc: disciplineSvc}
}

// ── 教师 ──

// ListTeachers 教师列表（含授课课程）
// GET /api/v1/teachers
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.teacherSvc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OKList(c, teachers, len(teachers))
}

// GetTeacher 教师详情（含平均分）
// GET /api/v1/teachers/:id
func (h *CatalogHandler) GetTeacher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	teacher, err := h.teacherSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, teacher)
}

// CreateTeacher 新增教师
// POST /api/v1/teachers
func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}

	teacher, err := h.teacherSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, teacher)
}

// SetTeacherDisciplines 整体替换教师的授课课程
// PUT /api/v1/teachers/:id/disciplines
func (h *CatalogHandler) SetTeacherDisciplines(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetTeacherDisciplinesRequest
	if !bindJSON(c, &req) {
		return
	}

	teacher, err := h.teacherSvc.SetDisciplines(c.Request.Context(), id, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, teacher)
}

// DeleteTeacher 删除教师及其评价
// DELETE /api/v1/teachers/:id
func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teacherSvc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 课程 ──

// ListDisciplines 课程列表
// GET /api/v1/disciplines
func (h *CatalogHandler) ListDisciplines(c *gin.Context) {
	disciplines, err := h.disciplineSvc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OKList(c, disciplines, len(disciplines))
}

// GetDiscipline 课程详情（含授课教师与平均分）
// GET /api/v1/disciplines/:id
func (h *CatalogHandler) GetDiscipline(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	discipline, err := h.disciplineSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, discipline)
}

// CreateDiscipline 新增课程
// POST /api/v1/disciplines
func (h *CatalogHandler) CreateDiscipline(c *gin.Context) {
	var req dto.CreateDisciplineRequest
	if !bindJSON(c, &req) {
		return
	}

	discipline, err := h.disciplineSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, discipline)
}

// DeleteDiscipline 删除课程，授课关系与两类评价随之删除
// DELETE /api/v1/disciplines/:id
func (h *CatalogHandler) DeleteDiscipline(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.disciplineSvc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, nil)
}
