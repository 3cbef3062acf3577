package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// PackageSuffix is the file suffix of a packaged extension.
const PackageSuffix = ".vsix"

// DefaultCacheMaxAge applies to files whose URL embeds a version, so their content never changes.
const DefaultCacheMaxAge = 30 * 24 * time.Hour

// Header is either a Disposition or a CacheControl; exactly one is sent per object.
type Header interface {
	isHeader()
}

// Disposition forces browsers to save the object under FileName.
type Disposition struct {
	FileName string
}

// CacheControl carries a Cache-Control header value.
type CacheControl struct {
	Value string
}

func (Disposition) isHeader()  {}
func (CacheControl) isHeader() {}

// Value returns the Content-Disposition header value.
func (d Disposition) Value() string {
	return fmt.Sprintf("attachment; filename=%q", d.FileName)
}

// Metadata is the set of headers stored with an object.
type Metadata struct {
	ContentType   string
	ContentLength int64
	Header        Header
}

// ContentDisposition returns the disposition header value, or "" if caching applies instead.
func (m Metadata) ContentDisposition() string {
	if d, ok := m.Header.(Disposition); ok {
		return d.Value()
	}
	return ""
}

// CacheControl returns the cache-control header value, or "" for packaged extensions.
func (m Metadata) CacheControl() string {
	if c, ok := m.Header.(CacheControl); ok {
		return c.Value
	}
	return ""
}

// CachePolicy classifies file names into long-lived and mutable cache classes.
type CachePolicy struct {
	MaxAge time.Duration
	// MutableMaxAge applies to names containing one of MutableNames; zero means no-cache.
	MutableMaxAge time.Duration
	MutableNames  []string
}

// DefaultCachePolicy caches everything for 30 days except "latest" pointers.
func DefaultCachePolicy() CachePolicy {
	return CachePolicy{
		MaxAge:       DefaultCacheMaxAge,
		MutableNames: []string{"latest"},
	}
}

// HeaderValue returns the Cache-Control value for fileName.
func (p CachePolicy) HeaderValue(fileName string) string {
	base := strings.ToLower(path.Base(fileName))
	for _, m := range p.MutableNames {
		if m != "" && strings.Contains(base, strings.ToLower(m)) {
			if p.MutableMaxAge <= 0 {
				return "no-cache"
			}
			return maxAge(p.MutableMaxAge)
		}
	}
	if p.MaxAge <= 0 {
		return "no-cache"
	}
	return maxAge(p.MaxAge)
}

func maxAge(d time.Duration) string {
	return fmt.Sprintf("max-age=%d, public", int64(d/time.Second))
}

// ResolveMetadata returns the headers to store with a file of the given name and size.
func (p CachePolicy) ResolveMetadata(fileName string, size int64) Metadata {
	m := Metadata{
		ContentType:   ContentType(fileName),
		ContentLength: size,
	}
	if strings.HasSuffix(fileName, PackageSuffix) {
		m.Header = Disposition{FileName: path.Base(fileName)}
	} else {
		m.Header = CacheControl{Value: p.HeaderValue(fileName)}
	}
	return m
}

// ContentType maps a file name to its MIME type. Files without a known
// extension (README, LICENSE, ...) are served as plain text.
func ContentType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".vsix", ".sigzip":
		return "application/octet-stream"
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown"
	case ".txt", ".sig":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".js":
		return "text/javascript"
	case ".css":
		return "text/css"
	case ".xml":
		return "application/xml"
	case ".zip":
		return "application/zip"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	default:
		return "text/plain"
	}
}
