package model

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAFile is returned by UploadFromPath for directories and devices.
var ErrNotAFile = errors.New("model: not a regular file")

const sniffBytes = 512

// UploadFromPath describes the file at path as an upload without reading it
// whole. The content type is sniffed from the first bytes, not the extension.
func UploadFromPath(path string) (*Upload, error) {
	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	return &Upload{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(head[:n]),
		Size:        info.Size(),
		Path:        path,
	}, nil
}
