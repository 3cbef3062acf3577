package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned by every operation of a backend that has no bucket configured.
	ErrDisabled = errors.New("storage: backend not enabled")
	// ErrInvalidKey is returned when entity identity cannot be mapped to a key.
	ErrInvalidKey = errors.New("storage: invalid key")
	// ErrNoLogo is returned for logo operations on a namespace without a logo.
	ErrNoLogo = errors.New("storage: namespace has no logo")
)

// Kind classifies where a storage failure originated.
type Kind int

const (
	// KindService means the remote store rejected the request.
	KindService Kind = iota + 1
	// KindTransport means the SDK or network failed before or during a request.
	KindTransport
	// KindLocalIO means reading or writing a local file failed.
	KindLocalIO
)

func (k Kind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindTransport:
		return "transport"
	case KindLocalIO:
		return "local-io"
	default:
		return "unknown"
	}
}

// Error is the normalized failure of a storage operation.
type Error struct {
	Op   string
	Key  string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %s: %s error: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err for op on key. A nil err yields nil.
func NewError(op, key string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Kind: kind, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
