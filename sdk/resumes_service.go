package voxhire

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/voxhire/voxhire-go/pkg/core"
	"github.com/voxhire/voxhire-go/pkg/core/types"
)

// pdfMagic is the signature every PDF starts with.
var pdfMagic = []byte("%PDF-")

// ResumesService uploads resumes used to seed interview questions.
type ResumesService struct {
	client *Client
}

// Upload sends a resume to the backend. Only PDF files are accepted; the
// check runs locally so an invalid file never leaves the machine.
func (s *ResumesService) Upload(ctx context.Context, filename string, data []byte) (*types.UploadAck, error) {
	if err := validateResume(filename, data); err != nil {
		return nil, err
	}

	part := filePart{
		Field:     "resume",
		Filename:  filepath.Base(filename),
		MediaType: "application/pdf",
		Data:      data,
	}
	var out types.UploadAck
	if err := s.client.doMultipartPOST(ctx, "/upload_resume", part, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func validateResume(filename string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return core.NewValidationError("resume must be a PDF file")
	}
	if len(data) == 0 {
		return core.NewValidationError("resume file is empty")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return core.NewValidationError("resume does not look like a PDF")
	}
	return nil
}
