package client

import (
	"io"

	"github.com/ai-stats/ai-stats-go/core/transport"
)

// FileUploadRequest is sent to POST /files as multipart/form-data.
type FileUploadRequest struct {
	Purpose     string
	Filename    string
	ContentType string
	Content     io.Reader
}

func (r *FileUploadRequest) multipart() (*transport.Multipart, Payload) {
	body := &transport.Multipart{
		Fields: map[string]string{"purpose": r.Purpose},
		Files: []transport.File{{
			Field:       "file",
			Filename:    r.Filename,
			ContentType: r.ContentType,
			Content:     r.Content,
		}},
	}
	record := Payload{"purpose": r.Purpose, "filename": r.Filename}
	return body, record
}

// FileResponse describes an uploaded file.
type FileResponse struct {
	RawResponse

	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
	Status    string `json:"status,omitempty"`
}

// FileListResponse is the result of Files.List.
type FileListResponse struct {
	RawResponse

	Object string         `json:"object"`
	Data   []FileResponse `json:"data"`
}
