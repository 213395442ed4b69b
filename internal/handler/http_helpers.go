package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
	"github.com/plantlog/internal/storage"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusUnprocessableEntity, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parsePagination 解析 skip/limit 查询参数，缺省为 0/100
func parsePagination(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return skip, limit
}

// respondServiceError 将业务层错误统一映射为 HTTP 状态码。
// 未识别的错误按内部错误处理：记录完整日志，仅向调用方返回笼统消息。
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPlantNotFound),
		errors.Is(err, service.ErrSpeciesNotFound),
		errors.Is(err, service.ErrDiagnosisNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrSpeciesConflict),
		errors.Is(err, service.ErrSpeciesInUse),
		errors.Is(err, service.ErrProfileExists):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserInvalidInput),
		errors.Is(err, service.ErrPlantInvalidInput),
		errors.Is(err, service.ErrSpeciesInvalidInput),
		errors.Is(err, service.ErrDiagnosisInvalidInput):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserInactive):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrVisionNotConfigured),
		errors.Is(err, storage.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
