package service

import (
	"fmt"

	"course-review/internal/model"
	"course-review/internal/validate"
	apperrors "course-review/pkg/errors"
)

// ── 认证模块业务错误 11xxx ──

var (
	ErrInvalidCredentials   = apperrors.New(apperrors.KindUnauthorized, 11001, "邮箱或密码错误")
	ErrEmailTaken           = apperrors.New(apperrors.KindDuplicateEntity, 11002, "该邮箱已注册")
	ErrUsernameTaken        = apperrors.New(apperrors.KindDuplicateEntity, 11003, "用户名已被占用")
	ErrWeakPassword         = apperrors.New(apperrors.KindValidationFailed, 11004, validate.PasswordRuleHint)
	ErrEmailNotRegistered   = apperrors.New(apperrors.KindNotFound, 11005, "该邮箱尚未注册")
	ErrTokenInvalid         = apperrors.New(apperrors.KindUnauthorized, 11006, "Token 无效或已过期")
	ErrVerificationNotFound = apperrors.New(apperrors.KindNotFound, 11101, "验证记录不存在")
	ErrVerificationExpired  = apperrors.New(apperrors.KindValidationFailed, 11102, "验证码已失效，请重新获取")
	ErrInvalidCode          = apperrors.New(apperrors.KindValidationFailed, 11103, "验证码错误，请重试")
)

// ── 用户模块业务错误 20xxx ──

var (
	ErrUserNotFound = apperrors.New(apperrors.KindNotFound, 20001, "用户不存在")
	ErrNoChanges    = apperrors.New(apperrors.KindValidationFailed, 20002, "没有需要修改的内容")
)

// ── 教师 / 课程模块业务错误 30xxx ──

var (
	ErrTeacherNotFound    = apperrors.New(apperrors.KindNotFound, 30001, "教师不存在")
	ErrDisciplineNotFound = apperrors.New(apperrors.KindNotFound, 30002, "课程不存在")
)

// ── 评价模块业务错误 40xxx ──

var (
	ErrTeacherNotAssigned = apperrors.New(apperrors.KindValidationFailed, 40001, "该教师未承担此课程")
	ErrRatingOutOfRange   = apperrors.New(apperrors.KindValidationFailed, 40002,
		fmt.Sprintf("评分必须在 %d 到 %d 之间", model.MinRating, model.MaxRating))
	ErrReviewNotFound  = apperrors.New(apperrors.KindNotFound, 40003, "评价不存在")
	ErrNotReviewOwner  = apperrors.New(apperrors.KindForbidden, 40004, "只能删除自己提交的评价")
	ErrMalformedFilter = apperrors.New(apperrors.KindMalformedInput, 40005, "检索参数格式错误")
)

// ── 排行榜 / 导出模块业务错误 41xxx ──

var (
	ErrUnknownReviewKind  = apperrors.New(apperrors.KindMalformedInput, 41001, "未知的评价类别")
	ErrExportGenerateFail = apperrors.New(apperrors.KindInternal, 41101, "生成 Excel 文件失败")
)
