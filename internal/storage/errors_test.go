package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCarriesKeyAndCause(t *testing.T) {
	err := NewError("upload", "acme/logo/logo.png", KindTransport, io.ErrUnexpectedEOF)
	require.Error(t, err)

	assert.Equal(t, "storage: upload acme/logo/logo.png: transport error: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var se *Error
	require.ErrorAs(t, fmt.Errorf("publish: %w", err), &se)
	assert.Equal(t, "acme/logo/logo.png", se.Key)
	assert.Equal(t, KindTransport, se.Kind)
}

func TestNewErrorNil(t *testing.T) {
	assert.NoError(t, NewError("get", "k", KindService, nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindLocalIO, KindOf(NewError("download", "k", KindLocalIO, os.ErrPermission)))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "service", KindService.String())
	assert.Equal(t, "local-io", KindLocalIO.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestParseCopyPolicy(t *testing.T) {
	p, err := ParseCopyPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CopyAbortOnError, p)

	p, err = ParseCopyPolicy(" Continue ")
	require.NoError(t, err)
	assert.Equal(t, CopyContinueOnError, p)

	_, err = ParseCopyPolicy("retry")
	assert.Error(t, err)
}

func TestTempFileLifecycle(t *testing.T) {
	tmp, err := NewTempFile("namespace-logo", ".png")
	require.NoError(t, err)
	assert.FileExists(t, tmp.Path())
	assert.Regexp(t, `namespace-logo-.*\.png$`, tmp.Path())

	require.NoError(t, os.WriteFile(tmp.Path(), []byte("png"), 0o600))
	size, err := tmp.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	require.NoError(t, tmp.Close())
	assert.NoFileExists(t, tmp.Path())
	assert.NoError(t, tmp.Close())
}
