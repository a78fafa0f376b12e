package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/plantops/skilltrack/pkg/services"
)

// multipartMemory caps how much of a multipart body is buffered in memory
// before spilling to temp files.
const multipartMemory = 10 << 20

// evidenceField is the multipart field carrying evidence files.
const evidenceField = "documents"

// evidenceUploads adapts the multipart file headers of a parsed form into
// lazy upload descriptors. Files are only opened when stored, so one bad
// file does not stop the others.
func evidenceUploads(form *multipart.Form) []services.EvidenceUpload {
	headers := form.File[evidenceField]
	uploads := make([]services.EvidenceUpload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, services.EvidenceUpload{
			OriginalFilename: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}

// parseEvidenceForm parses the request as a size-limited multipart form.
func parseEvidenceForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	return r.MultipartForm, nil
}
