package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Application error codes.
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeValidationFailed = 1004
	CodeDuplicateAction  = 1005
	CodeInvalidState     = 1006
	CodeGatewayError     = 1007
	CodeServerError      = 5000
)

// Default message per code.
var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "invalid parameters",
	CodeAuthFailed:       "authentication failed",
	CodePermissionDenied: "permission denied",
	CodeResourceNotFound: "resource not found",
	CodeValidationFailed: "validation failed",
	CodeDuplicateAction:  "duplicate action",
	CodeInvalidState:     "operation not allowed in current state",
	CodeGatewayError:     "payment gateway error",
	CodeServerError:      "internal server error",
}

// Response is the unified JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success responds with code 0 and data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage responds with a custom success message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error responds with an application error code.
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

func ValidationError(c *gin.Context, message string) {
	Error(c, CodeValidationFailed, message)
}

func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

func InvalidStateError(c *gin.Context, message string) {
	Error(c, CodeInvalidState, message)
}

func GatewayError(c *gin.Context, message string) {
	Error(c, CodeGatewayError, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
