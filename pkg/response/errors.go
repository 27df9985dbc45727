package response

import "errors"

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误（校验失败：重复ID、跨日志引用等）
	InvalidParameter ResponseCode = 2
	// 资源不存在
	NotFound ResponseCode = 3
	// 未认证
	Unauthorized ResponseCode = 4
	// 无权限
	Forbidden ResponseCode = 5
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Validation 构造参数校验错误
func Validation(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(InvalidParameter), WithErrorMessage(msg))
}

// NotFoundError 构造资源不存在错误
func NotFoundError(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(NotFound), WithErrorMessage(msg))
}

// CodeOf 返回错误链上第一个 BusinessError 的错误码
func CodeOf(err error) (ResponseCode, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return Fail, false
}

// IsCode 判断错误链上是否存在指定错误码的 BusinessError
func IsCode(err error, code ResponseCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
