package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovsx/storage/internal/middleware"
	"github.com/ovsx/storage/internal/response"
	"github.com/ovsx/storage/internal/storage"
	"github.com/ovsx/storage/internal/storage/storagetest"
)

const secret = "test-secret"

func token(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "registry",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newRouter(svc storage.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/files", func(r chi.Router) {
		NewHandler(svc, 16).Routes(r, middleware.RequireAuth(secret))
	})
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body []byte, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if auth {
		req.Header.Set("Authorization", "Bearer "+token(t))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLocationRedirects(t *testing.T) {
	h := newRouter(storagetest.New(""))

	rec := do(t, h, http.MethodGet, "/files/acme/tool/1.0.0/extension.vsix", nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://bucket.example.com/acme/tool/1.0.0/extension.vsix", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/files/acme/tool/1.0.0/extension/package.json?targetPlatform=linux-x64", nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://bucket.example.com/acme/tool/linux-x64/1.0.0/extension/package.json", rec.Header().Get("Location"))
}

func TestLocationRejectsInvalidName(t *testing.T) {
	rec := do(t, newRouter(storagetest.New("")), http.MethodGet, "/files/acme/tool/1.0.0/a/../b", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadSmallBody(t *testing.T) {
	svc := storagetest.New("openvsx")
	rec := do(t, newRouter(svc), http.MethodPut, "/files/acme/tool/1.0.0/extension.vsix", []byte("PK"), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Success bool         `json:"success"`
		Data    locationData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "https://bucket.example.com/openvsx/acme/tool/1.0.0/extension.vsix", env.Data.Location)

	got, ok := svc.Object("openvsx/acme/tool/1.0.0/extension.vsix")
	require.True(t, ok)
	assert.Equal(t, []byte("PK"), got)
}

func TestUploadLargeOrUnknownLengthIsSpooled(t *testing.T) {
	tests := []struct {
		name          string
		contentLength int64
	}{
		{"above threshold", 40},
		{"unknown length", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := storagetest.New("")
			body := bytes.Repeat([]byte("z"), 40)
			req := httptest.NewRequest(http.MethodPut, "/files/acme/tool/1.0.0/extension.vsix", bytes.NewReader(body))
			req.ContentLength = tt.contentLength
			req.Header.Set("Authorization", "Bearer "+token(t))
			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			got, ok := svc.Object("acme/tool/1.0.0/extension.vsix")
			require.True(t, ok)
			assert.Equal(t, body, got)
		})
	}
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	h := newRouter(storagetest.New(""))
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec := do(t, h, method, "/files/acme/tool/1.0.0/extension.vsix", []byte("x"), false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}
	rec := do(t, h, http.MethodPost, "/files/copy", []byte(`{"pairs":[]}`), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRemove(t *testing.T) {
	svc := storagetest.New("")
	svc.Put("acme/tool/1.0.0/extension.vsix", []byte("PK"))

	rec := do(t, newRouter(svc), http.MethodDelete, "/files/acme/tool/1.0.0/extension.vsix", nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := svc.Object("acme/tool/1.0.0/extension.vsix")
	assert.False(t, ok)
}

func TestCopy(t *testing.T) {
	svc := storagetest.New("")
	svc.Put("acme/tool/1.0.0/extension.vsix", []byte("PK"))
	body := `{"pairs":[{
		"source":{"namespace":"acme","extension":"tool","version":"1.0.0","name":"extension.vsix"},
		"target":{"namespace":"acme","extension":"tool","version":"1.0.1","name":"extension.vsix"}}]}`

	rec := do(t, newRouter(svc), http.MethodPost, "/files/copy", []byte(body), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"copied":1}}`, rec.Body.String())

	got, ok := svc.Object("acme/tool/1.0.1/extension.vsix")
	require.True(t, ok)
	assert.Equal(t, []byte("PK"), got)
	assert.Len(t, svc.Copies(), 1)
}

func TestCopyRejectsBadRequests(t *testing.T) {
	h := newRouter(storagetest.New(""))
	for _, body := range []string{`not json`, `{"pairs":[]}`} {
		rec := do(t, h, http.MethodPost, "/files/copy", []byte(body), true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestDisabledBackendAnswers503(t *testing.T) {
	svc := storagetest.New("")
	svc.Disabled = true
	h := newRouter(svc)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(t, h, method, "/files/acme/tool/1.0.0/extension.vsix", []byte("x"), true)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, method)
	}
	rec := do(t, h, http.MethodPost, "/files/copy", []byte(`{"pairs":[{"source":{},"target":{}}]}`), true)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBackendFailureAnswers502(t *testing.T) {
	svc := storagetest.New("")
	svc.Err = storage.NewError("delete", "k", storage.KindTransport, errors.New("connection reset"))

	rec := do(t, newRouter(svc), http.MethodDelete, "/files/acme/tool/1.0.0/extension.vsix", nil, true)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.False(t, strings.Contains(env.Error, "connection reset"))
}
