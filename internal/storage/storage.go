// Package storage abstracts where generated documents are persisted.
// The compliance pipeline only ever appends objects; nothing is updated or
// deleted after the fact.
package storage

import (
	"context"
	"io"
)

// FileInfo describes a stored object.
type FileInfo struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// Store writes objects under a path and resolves their public URLs.
type Store interface {
	Save(ctx context.Context, path string, file io.Reader, contentType string) (*FileInfo, error)
	URL(path string) string
}
