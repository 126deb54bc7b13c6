package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"accounthilfe/utils"
)

// UploadHandler stores evidence files (block screenshots, ID scans) in object
// storage, keyed by case.
type UploadHandler struct{}

const maxUploadSize = 10 << 20 // 10 MB

var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadEvidence accepts one multipart file under "file" and returns the
// stored object key.
func (h *UploadHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	caseID := r.URL.Query().Get(":id")
	if caseID == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "Missing case id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, CodeValidation, "File too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to read file")
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, CodeValidation,
			fmt.Sprintf("Unsupported file type %s", contentType))
		return
	}
	if got := strings.ToLower(filepath.Ext(header.Filename)); got == ".jpeg" && ext == ".jpg" {
		ext = ".jpeg"
	}

	fileName := uuid.NewString() + ext
	key, err := utils.UploadFileToS3(data, fileName, "evidence/"+caseID, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Upload failed")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"key": key})
}
