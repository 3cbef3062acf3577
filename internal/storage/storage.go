// Package storage defines the backend-agnostic storage abstraction used by the
// extension registry, along with the key and metadata rules every backend shares.
// Swap implementations by changing the concrete type injected at startup.
package storage

import (
	"context"
	"net/url"
)

// Service is the interface the registry uses to persist extension files and
// namespace logos.
type Service interface {
	// IsEnabled reports whether the backend is configured. Callers must not
	// invoke any other operation on a disabled backend; implementations return
	// ErrDisabled if they do.
	IsEnabled() bool

	// UploadFile stores the in-memory content of resource.
	UploadFile(ctx context.Context, resource *FileResource) error
	// UploadFileFrom stores resource using the bytes of a local temp file.
	UploadFileFrom(ctx context.Context, resource *FileResource, file *TempFile) error
	// RemoveFile deletes the object backing resource. Removing an object that
	// does not exist succeeds.
	RemoveFile(ctx context.Context, resource *FileResource) error
	// Location returns the public URL of resource. It performs no network I/O.
	Location(resource *FileResource) (*url.URL, error)

	UploadNamespaceLogo(ctx context.Context, namespace *Namespace) error
	RemoveNamespaceLogo(ctx context.Context, namespace *Namespace) error
	NamespaceLogoLocation(namespace *Namespace) (*url.URL, error)
	// DownloadNamespaceLogo fetches the logo into a new temp file. The caller
	// owns the returned file and must Close it.
	DownloadNamespaceLogo(ctx context.Context, namespace *Namespace) (*TempFile, error)

	// CopyFiles issues a server-side copy for every pair.
	CopyFiles(ctx context.Context, pairs []CopyPair) error
}
