package service

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sjdportal/models"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// AttachmentService stores uploaded proof/evidence files and hands back
// stable relative references. Callers store the reference, never raw bytes,
// and must store the attachment before committing any record mutation so a
// storage failure aborts cleanly.
type AttachmentService struct {
	basePath string
	maxBytes int64
}

// NewAttachmentService creates a new attachment service rooted at basePath.
func NewAttachmentService(basePath string, maxBytes int64) *AttachmentService {
	return &AttachmentService{basePath: basePath, maxBytes: maxBytes}
}

// Store sniffs the upload's real content type, accepts only images and PDFs,
// writes it under <base>/<bucket>/<uuid>.<ext> and returns the relative
// reference "<bucket>/<uuid>.<ext>". The declared filename and Content-Type
// header are ignored; only the bytes decide.
func (s *AttachmentService) Store(file io.Reader, bucket string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("upload exceeds %d bytes", s.maxBytes)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	mtype := mimetype.Detect(data)
	if !allowedAttachmentType(mtype) {
		return "", fmt.Errorf("%s: %w", mtype.String(), models.ErrUnsupportedFileType)
	}

	dir := filepath.Join(s.basePath, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + mtype.Extension()
	fullPath := filepath.Join(dir, name)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	reference := bucket + "/" + name
	log.Printf("[upload] stored %s (%s, %d bytes)", reference, mtype.String(), len(data))
	return reference, nil
}

// allowedAttachmentType gates uploads to images and PDFs.
func allowedAttachmentType(mtype *mimetype.MIME) bool {
	if mtype.Is("application/pdf") {
		return true
	}
	return strings.HasPrefix(mtype.String(), "image/")
}
