package cos

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ovsx/storage/internal/config"
	"github.com/ovsx/storage/internal/storage"
)

var _ storage.Service = (*Service)(nil)

// Service stores extension files and namespace logos in a COS bucket.
type Service struct {
	cfg      config.StorageConfig
	keys     storage.Keys
	endpoint string
	client   *Client
	logger   *slog.Logger

	transfer    func() *transferer
	poolStarted atomic.Bool
}

// NewService creates a COS-backed storage service. The client and worker
// pool are created on first use.
func NewService(log *slog.Logger, cfg config.StorageConfig) *Service {
	return newService(log, cfg, NewClient(cfg))
}

func newService(log *slog.Logger, cfg config.StorageConfig, client *Client) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		cfg:    cfg,
		keys:   storage.NewKeys(cfg.RootDir),
		client: client,
		logger: log.With(slog.String("service", "cos")),
	}
	s.endpoint = Endpoint(cfg.Endpoint, cfg.BucketName, cfg.Region)
	if s.endpoint != cfg.Endpoint && cfg.Enabled() {
		s.logger.Info("using default COS endpoint", slog.String("endpoint", s.endpoint))
	}
	s.transfer = sync.OnceValue(func() *transferer {
		s.poolStarted.Store(true)
		return &transferer{
			client:    s.client,
			pool:      newPool(cfg.PoolSize),
			threshold: cfg.MultipartThreshold,
			partSize:  cfg.PartSize,
			logger:    s.logger,
		}
	})
	return s
}

// IsEnabled reports whether a bucket name is configured.
func (s *Service) IsEnabled() bool {
	return s.cfg.Enabled()
}

// Endpoint returns the public base URL that locations are built on.
func (s *Service) Endpoint() string {
	return s.endpoint
}

// Keys returns the key deriver of this service.
func (s *Service) Keys() storage.Keys {
	return s.keys
}

// Client returns the underlying bucket client.
func (s *Service) Client() *Client {
	return s.client
}

// Close stops the worker pool if it was started.
func (s *Service) Close() error {
	if s.poolStarted.Load() {
		s.transfer().pool.close()
	}
	return nil
}

func (s *Service) fileKey(resource *storage.FileResource) (string, error) {
	if !s.IsEnabled() {
		return "", storage.ErrDisabled
	}
	return s.keys.FileKey(resource)
}

func (s *Service) logoKey(namespace *storage.Namespace) (string, error) {
	if !s.IsEnabled() {
		return "", storage.ErrDisabled
	}
	return s.keys.LogoKey(namespace)
}

// UploadFile stores the in-memory content of resource.
func (s *Service) UploadFile(ctx context.Context, resource *storage.FileResource) error {
	key, err := s.fileKey(resource)
	if err != nil {
		return err
	}
	if err := s.uploadBytes(ctx, key, resource.Name, resource.Content); err != nil {
		return err
	}
	s.logger.Info("uploaded file", slog.String("key", key))
	return nil
}

// UploadFileFrom stores resource with the bytes of file.
func (s *Service) UploadFileFrom(ctx context.Context, resource *storage.FileResource, file *storage.TempFile) error {
	key, err := s.fileKey(resource)
	if err != nil {
		return err
	}
	f, err := os.Open(file.Path())
	if err != nil {
		return storage.NewError("upload", key, storage.KindLocalIO, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return storage.NewError("upload", key, storage.KindLocalIO, err)
	}
	meta := s.cfg.Cache.ResolveMetadata(resource.Name, fi.Size())
	if err := s.transfer().upload(ctx, key, f, meta); err != nil {
		return err
	}
	s.logger.Info("uploaded file", slog.String("key", key), slog.Int64("size", fi.Size()))
	return nil
}

// RemoveFile deletes the object backing resource.
func (s *Service) RemoveFile(ctx context.Context, resource *storage.FileResource) error {
	key, err := s.fileKey(resource)
	if err != nil {
		return err
	}
	if err := s.client.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("removed file", slog.String("key", key))
	return nil
}

// Location returns the public URL of resource.
func (s *Service) Location(resource *storage.FileResource) (*url.URL, error) {
	key, err := s.fileKey(resource)
	if err != nil {
		return nil, err
	}
	return s.location(key)
}

// UploadNamespaceLogo stores the logo bytes of namespace.
func (s *Service) UploadNamespaceLogo(ctx context.Context, namespace *storage.Namespace) error {
	key, err := s.logoKey(namespace)
	if err != nil {
		return err
	}
	if err := s.uploadBytes(ctx, key, namespace.LogoName, namespace.LogoBytes); err != nil {
		return err
	}
	s.logger.Info("uploaded namespace logo", slog.String("key", key))
	return nil
}

// RemoveNamespaceLogo deletes the logo of namespace.
func (s *Service) RemoveNamespaceLogo(ctx context.Context, namespace *storage.Namespace) error {
	key, err := s.logoKey(namespace)
	if err != nil {
		return err
	}
	if err := s.client.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("removed namespace logo", slog.String("key", key))
	return nil
}

// NamespaceLogoLocation returns the public URL of the logo of namespace.
func (s *Service) NamespaceLogoLocation(namespace *storage.Namespace) (*url.URL, error) {
	key, err := s.logoKey(namespace)
	if err != nil {
		return nil, err
	}
	return s.location(key)
}

// DownloadNamespaceLogo fetches the logo into a new temp file owned by the caller.
func (s *Service) DownloadNamespaceLogo(ctx context.Context, namespace *storage.Namespace) (*storage.TempFile, error) {
	key, err := s.logoKey(namespace)
	if err != nil {
		return nil, err
	}
	tmp, err := storage.NewTempFile("namespace-logo", logoSuffix(namespace.LogoName))
	if err != nil {
		return nil, storage.NewError("download", key, storage.KindLocalIO, err)
	}
	if err := s.downloadTo(ctx, key, tmp); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	s.logger.Info("downloaded namespace logo", slog.String("key", key))
	return tmp, nil
}

func (s *Service) downloadTo(ctx context.Context, key string, tmp *storage.TempFile) error {
	f, err := os.OpenFile(tmp.Path(), os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return storage.NewError("download", key, storage.KindLocalIO, err)
	}
	if err := s.transfer().download(ctx, key, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return storage.NewError("download", key, storage.KindLocalIO, err)
	}
	return nil
}

// CopyFiles duplicates every source object to its target key inside the bucket.
func (s *Service) CopyFiles(ctx context.Context, pairs []storage.CopyPair) error {
	if !s.IsEnabled() {
		return storage.ErrDisabled
	}
	keyPairs := make([]keyPair, 0, len(pairs))
	for i, p := range pairs {
		src, err := s.keys.FileKey(p.Source)
		if err != nil {
			return fmt.Errorf("copy pair %d source: %w", i, err)
		}
		dst, err := s.keys.FileKey(p.Target)
		if err != nil {
			return fmt.Errorf("copy pair %d target: %w", i, err)
		}
		keyPairs = append(keyPairs, keyPair{src: src, dst: dst})
	}
	return s.transfer().copyAll(ctx, keyPairs, s.cfg.CopyPolicy)
}

func (s *Service) uploadBytes(ctx context.Context, key, fileName string, content []byte) error {
	meta := s.cfg.Cache.ResolveMetadata(fileName, int64(len(content)))
	return s.transfer().upload(ctx, key, bytes.NewReader(content), meta)
}

// location appends key to the endpoint. Keys hold escaped segments, so each
// segment is escaped once more to survive URL decoding unchanged.
func (s *Service) location(key string) (*url.URL, error) {
	base, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", s.endpoint, err)
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return base.JoinPath(segments...), nil
}

func logoSuffix(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 && !strings.ContainsAny(name[i:], `/\`) {
		return name[i:]
	}
	return ".png"
}
