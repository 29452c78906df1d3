package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
)

// multipartOverhead is allowed on top of the file size for headers and
// boundaries.
const multipartOverhead = 1 << 20

type uploadResponse struct {
	FileURL string `json:"file_url"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperrors.New(apperrors.CodePayloadTooLarge, "file too large"))
			return
		}
		writeError(w, r, apperrors.Wrap(apperrors.CodeValidation, "multipart field \"file\" is required", err))
		return
	}
	defer file.Close()

	// Read one byte past the cap to detect oversized files.
	payload, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if int64(len(payload)) > s.maxUploadBytes {
		writeError(w, r, apperrors.New(apperrors.CodePayloadTooLarge, "file too large"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}

	stored := &data.StoredFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        payload,
		UserID:      user.ID,
	}
	if err := s.files.SaveFile(r.Context(), stored); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{FileURL: "/api/files/" + stored.ID})
}

// handleGetFile serves stored bytes to anyone holding the id.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.files.GetFile(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, data.ErrNotFound) {
		writeError(w, r, apperrors.NotFound("file not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", f.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(f.Data)))
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(f.Data); err != nil {
		log.Printf("write file %s: %v", f.ID, err)
	}
}
