package extraction

import (
	"bytes"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/pkg/response"
	"github.com/campus-events/backend/pkg/storage"
)

// Handler handles form-scan extraction endpoints.
type Handler struct {
	client *Client
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates an extraction handler. s3 may be nil; scans are then
// processed without being retained.
func NewHandler(client *Client, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{client: client, s3: s3, logger: logger}
}

// Scan handles POST /extraction/scan (staff). Accepts one JPEG/PNG/PDF form
// up to 5MB and returns the extracted student rows. An empty rows array means
// the document was processed but nothing readable was found.
func (h *Handler) Scan(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxFormFileSize {
		response.BadRequest(c, "file exceeds 5MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateFormFileType(contentType) {
		response.BadRequest(c, "unsupported file type; use JPEG, PNG or PDF")
		return
	}

	document, err := io.ReadAll(io.LimitReader(file, storage.MaxFormFileSize+1))
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	if int64(len(document)) > storage.MaxFormFileSize {
		response.BadRequest(c, "file exceeds 5MB limit")
		return
	}

	rows, err := h.client.Extract(c.Request.Context(), contentType, document)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			response.Internal(c, ErrNotConfigured.Error())
			return
		}
		h.logger.Error("extraction failed", zap.Error(err), zap.String("filename", header.Filename))
		response.Internal(c, "extraction failed: "+err.Error())
		return
	}

	// retain the scan when storage is available; extraction already succeeded
	// so upload failures are logged, not surfaced
	var scanURL string
	if h.s3 != nil {
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		key := storage.FormScanKey(userID.String(), header.Filename)
		url, err := h.s3.Upload(c.Request.Context(), key, contentType, bytes.NewReader(document), int64(len(document)))
		if err != nil {
			h.logger.Warn("scan retention failed", zap.Error(err), zap.String("key", key))
		} else {
			scanURL = url
		}
	}

	response.OK(c, gin.H{
		"students": rows,
		"found":    len(rows),
		"scan_url": scanURL,
	})
}
