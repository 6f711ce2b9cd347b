package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"turbot/internal/app"
	"turbot/internal/pkg/docread"
	"turbot/internal/transport/http/response"
)

type UploadHandler struct {
	ingest   *app.IngestService
	maxBytes int64
}

func NewUploadHandler(ingest *app.IngestService, maxBytes int64) *UploadHandler {
	return &UploadHandler{ingest: ingest, maxBytes: maxBytes}
}

// Upload accepts one multipart "file", stores it under a timestamped name and
// runs the ingestion pipeline. Rejections clean up the stored file before
// responding.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no file provided")
		return
	}

	result, uploadErr := h.processOne(c, file)
	if uploadErr != nil {
		h.writeUploadError(c, uploadErr)
		return
	}
	response.OK(c, result)
}

// UploadMultiple processes each file of a multipart "files" list
// independently and reports a per-file result list.
func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files provided")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files provided")
		return
	}

	type fileOutcome struct {
		Filename string            `json:"filename"`
		Error    string            `json:"error,omitempty"`
		Result   *app.UploadResult `json:"result,omitempty"`
	}

	outcomes := make([]fileOutcome, 0, len(files))
	for _, file := range files {
		result, uploadErr := h.processOne(c, file)
		if uploadErr != nil {
			outcomes = append(outcomes, fileOutcome{Filename: file.Filename, Error: uploadErr.Error()})
			continue
		}
		outcomes = append(outcomes, fileOutcome{Filename: result.Filename, Result: result})
	}
	response.OK(c, gin.H{"results": outcomes})
}

func (h *UploadHandler) processOne(c *gin.Context, file *multipart.FileHeader) (*app.UploadResult, error) {
	if file.Filename == "" {
		return nil, errors.New("no file selected")
	}
	if file.Size > h.maxBytes {
		return nil, errors.New("file too large")
	}
	if !docread.Supported(filepath.Ext(file.Filename)) {
		return nil, errors.New("file type not supported, allowed: txt, pdf, docx")
	}

	storedName := app.StoredName(file.Filename, time.Now())
	path := filepath.Join(h.ingest.UploadDir(), storedName)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return nil, errStoreFailed
	}

	return h.ingest.Process(c.Request.Context(), path, storedName)
}

var errStoreFailed = errors.New("failed to store file")

func (h *UploadHandler) writeUploadError(c *gin.Context, err error) {
	if errors.Is(err, errStoreFailed) {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}
	response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
}
