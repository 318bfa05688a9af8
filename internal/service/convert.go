package service

import (
	"time"

	"course-review/internal/dto"
	"course-review/internal/model"
)

// dateLayout 评价提交日期的对外格式
const dateLayout = "2006-01-02"

// toUserResponse 将 model.User 转换为 dto.UserResponse
func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func toTeacherReviewResponse(r *model.TeacherReview) dto.TeacherReviewResponse {
	return dto.TeacherReviewResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		TeacherID:      r.TeacherID,
		DisciplineID:   r.DisciplineID,
		TeacherName:    r.TeacherName,
		TeacherSurname: r.TeacherSurname,
		DisciplineName: r.DisciplineName,
		Difficulty:     r.Difficulty,
		Rating:         r.Rating,
		Feedback:       r.Feedback,
		SubmittedOn:    r.SubmittedOn.Format(dateLayout),
	}
}

func toDisciplineReviewResponse(r *model.DisciplineReview) dto.DisciplineReviewResponse {
	return dto.DisciplineReviewResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		DisciplineID:   r.DisciplineID,
		DisciplineName: r.DisciplineName,
		Difficulty:     r.Difficulty,
		Rating:         r.Rating,
		Feedback:       r.Feedback,
		SubmittedOn:    r.SubmittedOn.Format(dateLayout),
	}
}

func toTeacherReviewResponses(reviews []model.TeacherReview) []dto.TeacherReviewResponse {
	out := make([]dto.TeacherReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = toTeacherReviewResponse(&reviews[i])
	}
	return out
}

func toDisciplineReviewResponses(reviews []model.DisciplineReview) []dto.DisciplineReviewResponse {
	out := make([]dto.DisciplineReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = toDisciplineReviewResponse(&reviews[i])
	}
	return out
}

func toTeacherResponse(t *model.Teacher) dto.TeacherResponse {
	resp := dto.TeacherResponse{
		ID:          t.ID,
		Name:        t.Name,
		Surname:     t.Surname,
		Disciplines: make([]dto.DisciplineBrief, len(t.Disciplines)),
	}
	for i, d := range t.Disciplines {
		resp.Disciplines[i] = dto.DisciplineBrief{ID: d.ID, Name: d.Name, Faculty: d.Faculty, Type: d.Type}
	}
	return resp
}

func toDisciplineResponse(d *model.Discipline) dto.DisciplineResponse {
	resp := dto.DisciplineResponse{
		ID:      d.ID,
		Name:    d.Name,
		Faculty: d.Faculty,
		Type:    d.Type,
	}
	if len(d.Teachers) > 0 {
		resp.Teachers = make([]dto.TeacherBrief, len(d.Teachers))
		for i, t := range d.Teachers {
			resp.Teachers[i] = dto.TeacherBrief{ID: t.ID, Name: t.Name, Surname: t.Surname}
		}
	}
	return resp
}
