package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code and human message of an error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes 200 with {"success":true,"data":...}.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes 201 with {"success":true,"data":...}.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Fields writes status with the given fields alongside "success":true at
// the top level, for endpoints whose contract is a flat object.
func Fields(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Paginated writes a page of items with its pagination metadata.
func Paginated[T any](c *gin.Context, items []T, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    domain.NewPaginatedResult(items, total, page, limit),
	})
}

// BadRequest writes 400 with a validation error body.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, domain.CodeValidation, message)
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, domain.CodeUnauthorized, message)
}

// Forbidden writes 403.
func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, domain.CodeForbidden, message)
}

// Error maps err onto an HTTP status. Unclassified errors become a generic 500.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status := StatusFor(code)
	message := "internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}
	_ = c.Error(err)
	abort(c, status, code, message)
}

// StatusFor returns the HTTP status used for an error code.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeInvalidState:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, code domain.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Success: false,
		Error:   ErrorDetail{Code: string(code), Message: message},
	})
}
