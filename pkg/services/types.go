package services

import "io"

// Actor identifies the authenticated user performing a mutation, plus the
// originating IP captured for the audit trail.
type Actor struct {
	ID   int64
	Name string
	IP   string
}

// EvidenceUpload is one submitted evidence file. Open is called once when
// the file is persisted; handlers adapt multipart file headers to this.
type EvidenceUpload struct {
	OriginalFilename string
	Open             func() (io.ReadCloser, error)
}

// FailedFile reports one evidence file that could not be stored after the
// level change already committed.
type FailedFile struct {
	OriginalFilename string `json:"original_filename"`
	Reason           string `json:"reason"`
}
