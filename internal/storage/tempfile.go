package storage

import (
	"fmt"
	"os"
)

// TempFile is a file on local disk that is removed when closed.
type TempFile struct {
	path string
}

// NewTempFile creates an empty temp file named prefix*suffix in the default temp dir.
func NewTempFile(prefix, suffix string) (*TempFile, error) {
	f, err := os.CreateTemp("", prefix+"-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &TempFile{path: f.Name()}, nil
}

// Path returns the absolute path of the file.
func (t *TempFile) Path() string {
	return t.path
}

// Size returns the current length of the file.
func (t *TempFile) Size() (int64, error) {
	fi, err := os.Stat(t.path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Close removes the file. Closing an already removed file is a no-op.
func (t *TempFile) Close() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
