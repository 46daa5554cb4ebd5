package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pinshare/internal/config"
	"pinshare/internal/domain/file"
	"pinshare/internal/interfaces/httpserver/middlewares"
	"pinshare/internal/interfaces/httpserver/requests"
	"pinshare/internal/interfaces/httpserver/responses"
	"pinshare/internal/utils/platformerrors"
	"pinshare/utils/stagingid"
)

// FileHandler exposes the upload pipeline and file queries.
type FileHandler struct {
	cfg     *config.Config
	service *file.Service
	log     zerolog.Logger
}

func NewFileHandler(cfg *config.Config, service *file.Service, log zerolog.Logger) *FileHandler {
	return &FileHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "file-handler").Logger(),
	}
}

// Upload stages the multipart file locally and drives the pipeline. The
// staging area never holds a file past the end of the request.
func (h *FileHandler) Upload(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "0b3f7c24-a816-4d50-92e7-61f4d8a03c95")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"no file uploaded", "2e60d9b7-538a-4f12-bc48-97a3e05f61d2")
		return
	}
	if header.Size > h.cfg.MaxUploadBytes {
		responses.HandleNewError(c, platformerrors.ErrorTypePayloadTooLarge,
			"file size exceeds upload limit", "9d2571f3-c40e-4b86-a593-08e6b1d27c40")
		return
	}
	if !h.service.PinningConfigured() {
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal,
			"pinning configuration not available", "4f08b6a1-d923-4c57-8e10-b75a2c94d6e8")
		return
	}

	if err := os.MkdirAll(h.cfg.StagingDir, 0o755); err != nil {
		h.log.Error().Err(err).Msg("staging directory unavailable")
		responses.HandleNewError(c, platformerrors.ErrorTypeIO,
			"file upload failed", "ba95c1e7-2d08-4f63-a741-50c8d3f96e12")
		return
	}
	stagedPath := filepath.Join(h.cfg.StagingDir, stagingid.New()+filepath.Ext(header.Filename))
	if err := c.SaveUploadedFile(header, stagedPath); err != nil {
		h.log.Error().Err(err).Msg("failed to stage upload")
		responses.HandleNewError(c, platformerrors.ErrorTypeIO,
			"file upload failed", "e3d04b58-6f91-4a27-bc86-194f72e05a3d")
		return
	}

	staged := file.StagedUpload{
		Path:         stagedPath,
		OriginalName: header.Filename,
		MediaType:    header.Header.Get("Content-Type"),
		Size:         header.Size,
	}
	input := file.UploadInput{
		OwnerID:     claims.UserID,
		IsPublic:    c.PostForm("isPublic") == "true",
		Description: c.PostForm("description"),
	}

	rec, err := h.service.Upload(c.Request.Context(), staged, input)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("upload failed")
		responses.HandleError(c, err, "file upload failed")
		return
	}

	c.JSON(http.StatusOK, responses.UploadResponse{
		Message: "File uploaded successfully",
		File:    responses.BuildFileSummary(rec, false),
	})
}

// Download redirects to the gateway location when the caller has access.
func (h *FileHandler) Download(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "c72e58a0-1b94-4d36-8f25-d03a67e41b89")
		return
	}

	rec, err := h.service.Metadata(c.Request.Context(), c.Param("hash"), claims.UserID)
	if err != nil {
		responses.HandleError(c, err, "file download failed")
		return
	}

	c.Redirect(http.StatusFound, h.service.GatewayURL(rec.CID))
}

// Metadata returns record details including the uploader.
func (h *FileHandler) Metadata(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "61d90f35-8c27-4ab4-95e0-2f7b4c80d516")
		return
	}

	rec, err := h.service.Metadata(c.Request.Context(), c.Param("hash"), claims.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to get file metadata")
		return
	}

	c.JSON(http.StatusOK, responses.BuildFileSummary(rec, true))
}

// ListMine returns files the caller owns or was granted access to.
func (h *FileHandler) ListMine(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "7a25c903-e4b8-4f61-80d7-3c95f1e62a04")
		return
	}

	recs, err := h.service.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to get files")
		return
	}

	c.JSON(http.StatusOK, responses.FileListResponse{Files: responses.BuildFileSummaries(recs, true)})
}

// ListPublic returns the newest public records. No authentication required.
func (h *FileHandler) ListPublic(c *gin.Context) {
	recs, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to get public files")
		return
	}

	c.JSON(http.StatusOK, responses.FileListResponse{Files: responses.BuildFileSummaries(recs, true)})
}

// Share grants read access to the listed users. Owner only.
func (h *FileHandler) Share(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "58f02da6-347c-4e19-b8a5-96e1c40d73f2")
		return
	}

	var req requests.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"userIds list is required", "1c84b7e0-d652-4a38-90cf-27d509e8b164")
		return
	}

	if err := h.service.Share(c.Request.Context(), c.Param("hash"), claims.UserID, req.UserIDs); err != nil {
		responses.HandleError(c, err, "failed to share file")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File shared successfully"})
}

// Delete removes the record. Owner only.
func (h *FileHandler) Delete(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "3091fe57-b2a4-4c80-9d63-e85f40c217ab")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("hash"), claims.UserID); err != nil {
		responses.HandleError(c, err, "failed to delete file")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// Health reports liveness.
func (h *FileHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
