// Package storagetest provides an in-memory storage.Service for handler tests.
package storagetest

import (
	"context"
	"net/url"
	"os"
	"sync"

	"github.com/ovsx/storage/internal/storage"
)

// Service keeps objects in a map keyed the same way the COS backend keys them.
// Err, when set, is returned by every operation after the enablement check.
type Service struct {
	Disabled bool
	Err      error
	Endpoint string

	mu      sync.Mutex
	keys    storage.Keys
	objects map[string][]byte
	copies  []storage.CopyPair
}

var _ storage.Service = (*Service)(nil)

// New returns an enabled Service rooted at rootDir.
func New(rootDir string) *Service {
	return &Service{
		Endpoint: "https://bucket.example.com/",
		keys:     storage.NewKeys(rootDir),
		objects:  map[string][]byte{},
	}
}

// Object returns the stored bytes under key.
func (s *Service) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	return b, ok
}

// Put stores data under key directly.
func (s *Service) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

// Copies returns the pairs passed to CopyFiles so far.
func (s *Service) Copies() []storage.CopyPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.CopyPair(nil), s.copies...)
}

func (s *Service) IsEnabled() bool { return !s.Disabled }

func (s *Service) check() error {
	if s.Disabled {
		return storage.ErrDisabled
	}
	return s.Err
}

func (s *Service) fileKey(res *storage.FileResource) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.keys.FileKey(res)
}

func (s *Service) logoKey(ns *storage.Namespace) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.keys.LogoKey(ns)
}

func (s *Service) UploadFile(_ context.Context, res *storage.FileResource) error {
	key, err := s.fileKey(res)
	if err != nil {
		return err
	}
	s.Put(key, res.Content)
	return nil
}

func (s *Service) UploadFileFrom(_ context.Context, res *storage.FileResource, file *storage.TempFile) error {
	key, err := s.fileKey(res)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file.Path())
	if err != nil {
		return storage.NewError("upload", key, storage.KindLocalIO, err)
	}
	s.Put(key, data)
	return nil
}

func (s *Service) RemoveFile(_ context.Context, res *storage.FileResource) error {
	key, err := s.fileKey(res)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *Service) Location(res *storage.FileResource) (*url.URL, error) {
	key, err := s.fileKey(res)
	if err != nil {
		return nil, err
	}
	return url.Parse(s.Endpoint + key)
}

func (s *Service) UploadNamespaceLogo(_ context.Context, ns *storage.Namespace) error {
	key, err := s.logoKey(ns)
	if err != nil {
		return err
	}
	s.Put(key, ns.LogoBytes)
	return nil
}

func (s *Service) RemoveNamespaceLogo(_ context.Context, ns *storage.Namespace) error {
	key, err := s.logoKey(ns)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *Service) NamespaceLogoLocation(ns *storage.Namespace) (*url.URL, error) {
	key, err := s.logoKey(ns)
	if err != nil {
		return nil, err
	}
	return url.Parse(s.Endpoint + key)
}

func (s *Service) DownloadNamespaceLogo(_ context.Context, ns *storage.Namespace) (*storage.TempFile, error) {
	key, err := s.logoKey(ns)
	if err != nil {
		return nil, err
	}
	data, ok := s.Object(key)
	if !ok {
		return nil, storage.NewError("download", key, storage.KindService, os.ErrNotExist)
	}
	tmp, err := storage.NewTempFile("namespace-logo", "")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(tmp.Path(), data, 0o600); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	return tmp, nil
}

func (s *Service) CopyFiles(_ context.Context, pairs []storage.CopyPair) error {
	if err := s.check(); err != nil {
		return err
	}
	for _, p := range pairs {
		src, err := s.keys.FileKey(p.Source)
		if err != nil {
			return err
		}
		dst, err := s.keys.FileKey(p.Target)
		if err != nil {
			return err
		}
		data, ok := s.Object(src)
		if !ok {
			return storage.NewError("copy", src, storage.KindService, os.ErrNotExist)
		}
		s.Put(dst, data)
		s.mu.Lock()
		s.copies = append(s.copies, p)
		s.mu.Unlock()
	}
	return nil
}
