package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	res "terminal-terrace/journal-wiki/pkg/response"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

// CreatedResponse 资源创建成功
func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, res.SuccessResponse(data))
}

// StatusOf 业务错误码对应的 HTTP 状态码
func StatusOf(code res.ResponseCode) int {
	switch code {
	case res.ParseError, res.InvalidParameter:
		return http.StatusBadRequest
	case res.Unauthorized:
		return http.StatusUnauthorized
	case res.Forbidden:
		return http.StatusForbidden
	case res.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse 写入业务错误，HTTP 状态码由错误码决定
func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(StatusOf(err.Code), res.FromError(err))
}

// UnavailableResponse 依赖不可用时返回 503，data 中带上检查结果
func UnavailableResponse(c *gin.Context, data any) {
	c.JSON(http.StatusServiceUnavailable, res.New(
		res.WithCode(res.Fail),
		res.WithMessage("服务不可用"),
		res.WithData(data),
	))
}

// HandleError 将服务层错误写入响应
// BusinessError 原样返回，其余错误记录日志后统一返回 500，不向客户端暴露细节
func HandleError(c *gin.Context, err error) {
	var be *res.BusinessError
	if errors.As(err, &be) {
		ErrorResponse(c, be)
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.Fail),
		res.WithErrorMessage("服务器内部错误"),
		res.WithError(err),
	))
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	// 尝试转换为 validator.ValidationErrors
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		// 获取第一个错误
		firstErr := validationErrs[0]

		// 获取字段的JSON标签名
		jsonField := getJSONFieldName(firstErr)

		// 构造友好的错误消息
		var message string
		switch firstErr.Tag() {
		case "required":
			message = fmt.Sprintf("字段 '%s' 是必填项", jsonField)
		case "max":
			message = fmt.Sprintf("字段 '%s' 长度不能超过 %s", jsonField, firstErr.Param())
		case "min":
			message = fmt.Sprintf("字段 '%s' 长度不能少于 %s", jsonField, firstErr.Param())
		case "oneof":
			message = fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
		default:
			message = fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
		}

		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage(message),
		))
		return
	}

	// 如果不是 validation 错误，返回原始错误消息
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("参数错误: "+err.Error()),
	))
}

// getJSONFieldName 获取字段的JSON标签名称
func getJSONFieldName(fe validator.FieldError) string {
	// validator 不直接提供结构体实例，只能返回字段名的 snake_case 版本
	field := fe.StructNamespace()
	if parts := strings.Split(field, "."); len(parts) > 1 {
		return toSnakeCase(parts[len(parts)-1])
	}
	return toSnakeCase(fe.Field())
}

// toSnakeCase 将PascalCase转换为snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
