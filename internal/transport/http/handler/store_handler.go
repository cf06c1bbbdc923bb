package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yagro/gostore/internal/config"
	"github.com/yagro/gostore/internal/store"
	apperrors "github.com/yagro/gostore/pkg/errors"
	"github.com/yagro/gostore/pkg/logger"
)

// StoreHandler exposes the file store over HTTP: uploads under the
// configured URL prefix, existence checks, and serving stored files back.
type StoreHandler struct {
	store store.Provider
	cfg   *config.StoreConfig
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(provider store.Provider, cfg *config.StoreConfig) *StoreHandler {
	return &StoreHandler{store: provider, cfg: cfg}
}

// Upload handles a multipart upload in the "file" form field and persists
// it through the store provider.
func (h *StoreHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "multipart field \"file\" is required",
		})
		return
	}

	filename, err := h.store.Save(store.NewMultipartFile(fileHeader))
	if err != nil {
		status := apperrors.HTTPStatusOf(err)
		logger.WithContext(c.Request.Context()).WithError(err).Error("upload failed",
			logger.Filename(fileHeader.Filename),
		)
		c.JSON(status, gin.H{
			"error":   "upload_failed",
			"message": err.Error(),
		})
		return
	}

	logger.WithContext(c.Request.Context()).Info("file stored",
		logger.Filename(filename),
		logger.StorePath(h.store.RelativePath(filename)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"filename": filename,
		"path":     h.store.RelativePath(filename),
		"url":      h.store.AbsoluteURL(filename),
	})
}

// Exists reports whether the requested file is present in the store.
// The answer reflects store state at call time.
func (h *StoreHandler) Exists(c *gin.Context) {
	filename, ok := h.storedFilename(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	exists, err := h.store.Exists(filename)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// Serve maps url_prefix[/destination]/filename back to the file under
// base_path and streams it. Only the local store can serve directly.
func (h *StoreHandler) Serve(c *gin.Context) {
	local, ok := h.store.(*store.LocalStore)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "direct serving is only available for the local store",
		})
		return
	}

	filename, ok := h.storedFilename(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "invalid file path",
		})
		return
	}

	abs := local.AbsolutePath(filename)

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": apperrors.NotFound(filename).Message,
		})
		return
	}

	c.File(abs)
}

// storedFilename extracts the logical filename from the wildcard path
// parameter: the leading slash of the wildcard match is dropped, the
// configured destination prefix (already part of the URL) is stripped,
// and traversal segments are rejected.
func (h *StoreHandler) storedFilename(c *gin.Context) (string, bool) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	if rel == "" {
		return "", false
	}

	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			return "", false
		}
	}

	if dest := strings.Trim(h.cfg.Destination, "/"); dest != "" {
		rel = strings.TrimPrefix(rel, dest+"/")
	}

	return rel, true
}
