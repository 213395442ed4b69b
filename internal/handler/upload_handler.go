package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// 上传大小上限
const (
	maxAvatarBytes     = 5 << 20
	maxPlantImageBytes = 10 << 20
)

var allowedImageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// readImageUpload 从 multipart 表单读取 file 字段，
// 校验扩展名与大小，失败时直接写好响应并返回 ok=false
func readImageUpload(c *gin.Context, maxBytes int64) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "file field is required")
		return nil, "", false
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if !allowedImageExts[ext] {
		respondError(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("unsupported image type %q, expected jpg, jpeg, png or webp", ext))
		return nil, "", false
	}

	if fileHeader.Size > maxBytes {
		respondError(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("file too large, limit is %d bytes", maxBytes))
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return nil, "", false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return nil, "", false
	}
	if int64(len(content)) > maxBytes {
		respondError(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("file too large, limit is %d bytes", maxBytes))
		return nil, "", false
	}

	return content, ext, true
}

// UploadAvatar 上传当前用户头像，返回公开访问地址
func (a *API) UploadAvatar(c *gin.Context) {
	content, ext, ok := readImageUpload(c, maxAvatarBytes)
	if !ok {
		return
	}

	url, err := a.storage.UploadAvatar(c.Request.Context(), currentUser(c).ID, content, ext)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadDiagnosisImage 上传诊断照片（记录可以随后再创建），返回公开访问地址
func (a *API) UploadDiagnosisImage(c *gin.Context) {
	content, ext, ok := readImageUpload(c, maxPlantImageBytes)
	if !ok {
		return
	}

	url, err := a.storage.UploadDiagnosisImage(c.Request.Context(), currentUser(c).ID, content, ext)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
