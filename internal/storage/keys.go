package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Keys derives object keys from entity identity. The zero value nests keys
// directly at the bucket root.
type Keys struct {
	root string
}

// NewKeys returns a Keys that nests every key under rootDir.
func NewKeys(rootDir string) Keys {
	return Keys{root: strings.Trim(rootDir, "/")}
}

// Root returns the normalized root directory, without leading or trailing '/'.
func (k Keys) Root() string {
	return k.root
}

// FileKey returns the resolved key of an extension file:
// root/namespace/extension[/platform]/version/name...
func (k Keys) FileKey(resource *FileResource) (string, error) {
	local, err := FileObjectName(resource)
	if err != nil {
		return "", err
	}
	return k.resolve(local), nil
}

// LogoKey returns the resolved key of a namespace logo: root/namespace/logo/logoName.
func (k Keys) LogoKey(namespace *Namespace) (string, error) {
	local, err := LogoObjectName(namespace)
	if err != nil {
		return "", err
	}
	return k.resolve(local), nil
}

func (k Keys) resolve(local string) string {
	if k.root == "" {
		return local
	}
	return path.Join(k.root, local)
}

// FileObjectName returns the entity-local part of a file key.
func FileObjectName(resource *FileResource) (string, error) {
	if resource == nil {
		return "", fmt.Errorf("%w: nil file resource", ErrInvalidKey)
	}
	v := resource.Version
	segments := []string{v.Namespace, v.Extension}
	if !v.IsUniversal() {
		segments = append(segments, v.TargetPlatform)
	}
	segments = append(segments, v.Version)
	for _, s := range segments {
		if err := checkSegment(s); err != nil {
			return "", err
		}
	}
	if resource.Name == "" {
		return "", fmt.Errorf("%w: empty file name", ErrInvalidKey)
	}
	for _, part := range strings.Split(resource.Name, "/") {
		if err := checkSegment(part); err != nil {
			return "", fmt.Errorf("file name %q: %w", resource.Name, err)
		}
		segments = append(segments, part)
	}
	return JoinSegments(segments...), nil
}

// LogoObjectName returns the entity-local part of a logo key.
func LogoObjectName(namespace *Namespace) (string, error) {
	if namespace == nil {
		return "", fmt.Errorf("%w: nil namespace", ErrInvalidKey)
	}
	if namespace.LogoName == "" {
		return "", ErrNoLogo
	}
	segments := []string{namespace.Name, "logo", namespace.LogoName}
	for _, s := range segments {
		if err := checkSegment(s); err != nil {
			return "", err
		}
	}
	return JoinSegments(segments...), nil
}

// JoinSegments escapes each segment for use in a URL path and joins them with '/'.
// The result never starts with '/'.
func JoinSegments(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/")
}

func checkSegment(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty path segment", ErrInvalidKey)
	case s == "." || s == "..":
		return fmt.Errorf("%w: relative path segment %q", ErrInvalidKey, s)
	case strings.Contains(s, "/"):
		return fmt.Errorf("%w: segment %q contains '/'", ErrInvalidKey, s)
	}
	return nil
}
