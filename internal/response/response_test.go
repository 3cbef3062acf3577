package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovsx/storage/internal/storage"
)

func TestStorageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"disabled", storage.ErrDisabled, http.StatusServiceUnavailable},
		{"invalid key", fmt.Errorf("copy pair 0 source: %w", storage.ErrInvalidKey), http.StatusBadRequest},
		{"no logo", storage.ErrNoLogo, http.StatusNotFound},
		{"service", storage.NewError("put", "k", storage.KindService, errors.New("AccessDenied")), http.StatusBadGateway},
		{"transport", storage.NewError("put", "k", storage.KindTransport, errors.New("EOF")), http.StatusBadGateway},
		{"local io", storage.NewError("download", "k", storage.KindLocalIO, errors.New("disk full")), http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			StorageError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)

			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
