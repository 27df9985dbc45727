package response

type ResponseCode int

// 成功码，失败码见 errors.go
const Success ResponseCode = 100

const successMessage = "success"

// Response 统一响应信封 {code, message, data}
type Response struct {
	Message string       `json:"message"`
	Code    ResponseCode `json:"code"`
	Data    any          `json:"data"`
}

type ResponseOption func(*Response)

func WithMessage(message string) ResponseOption {
	return func(r *Response) {
		r.Message = message
	}
}

func WithCode(code ResponseCode) ResponseOption {
	return func(r *Response) {
		r.Code = code
	}
}

func WithData(data any) ResponseOption {
	return func(r *Response) {
		r.Data = data
	}
}

// New 构造响应信封，未指定的字段取成功值
func New(opts ...ResponseOption) Response {
	r := Response{Code: Success, Message: successMessage}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SuccessResponse 携带数据的成功响应
func SuccessResponse(data any) Response {
	return New(WithData(data))
}

// FromError 业务错误对应的失败响应，data 恒为 null
func FromError(err *BusinessError) Response {
	return New(WithCode(err.Code), WithMessage(err.Msg))
}
