package errors

import "errors"

// Kind 业务错误分类，决定对外的 HTTP 状态
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidationFailed
	KindDuplicateEntity
	KindMalformedInput
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidationFailed:
		return "validation_failed"
	case KindDuplicateEntity:
		return "duplicate_entity"
	case KindMalformedInput:
		return "malformed_input"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// AppError 可直接返回给调用方的业务错误（带错误码）
type AppError struct {
	Kind    Kind
	Code    int
	Message string
}

// New 创建业务错误
func New(kind Kind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string { return e.Message }

// KindOf 返回错误链中第一个 AppError 的分类，不存在时为 KindInternal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As 提取错误链中的 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
