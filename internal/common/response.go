package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

// Business codes. The first digit mirrors the http status family.
const (
	CodeInvalidJSON     = 10001
	CodeInvalidParam    = 10002
	CodeNothingSelected = 10010
	CodeTokenMismatch   = 10011

	CodeUnauthorized = 40101
	CodeNotFound     = 40400
	CodeSessionGone  = 40401
	CodeEntryGone    = 40402
	CodeJobGone      = 40403
	CodeNoMethod     = 40500

	CodeCreditsExhausted = 40201
	CodeRateLimited      = 42901

	CodeInternal      = 50001
	CodeEnqueueFailed = 50002
	CodeProvider      = 50201
)
