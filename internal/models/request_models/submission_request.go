package request_models

import (
	"io"
	"mime/multipart"
)

// UploadedFile is one multipart file part, opened lazily by the service.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FromFileHeader(fh *multipart.FileHeader) UploadedFile {
	return UploadedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open:        func() (io.ReadCloser, error) { return fh.Open() },
	}
}

func FromFileHeaders(fhs []*multipart.FileHeader) []UploadedFile {
	out := make([]UploadedFile, 0, len(fhs))
	for _, fh := range fhs {
		out = append(out, FromFileHeader(fh))
	}
	return out
}

// SubmissionInput is a public testimonial submission. Answers are keyed "q<index>" after the
// campaign's custom questions.
type SubmissionInput struct {
	Name    string
	Email   string
	Rating  int
	Text    string
	Answers map[string]string
	Photos  []UploadedFile
	Videos  []UploadedFile
	Token   string
}
