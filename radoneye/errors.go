package radoneye

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindConnection
	KindProtocol
	KindDecode
	KindSanity
	KindExhaustedRetries
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection error"
	case KindProtocol:
		return "protocol error"
	case KindDecode:
		return "decode error"
	case KindSanity:
		return "sanity error"
	case KindExhaustedRetries:
		return "exhausted retries"
	case KindConfig:
		return "config error"
	default:
		return "unknown error"
	}
}

var (
	ErrServiceNotFound        = errors.New("service not found")
	ErrCharacteristicNotFound = errors.New("characteristic not found")
	ErrShortResponse          = errors.New("response too short")
	ErrImplausibleReading     = errors.New("implausible reading")
)

// Error classifies a failure of the measurement path.
type Error struct {
	Kind Kind

	// number of attempts made, only set for KindExhaustedRetries
	Attempts int

	Err error
}

func (e *Error) Error() string {
	if e.Kind == KindExhaustedRetries {
		return fmt.Sprintf("all %d attempts failed: %s", e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

func newError(kind Kind, err error, msg string) error {
	if err == nil {
		return &Error{Kind: kind, Err: errors.New(msg)}
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

func ConnectionError(err error, msg string) error { return newError(KindConnection, err, msg) }

func ProtocolError(err error, msg string) error { return newError(KindProtocol, err, msg) }

func DecodeError(err error, msg string) error { return newError(KindDecode, err, msg) }

func SanityError(err error, msg string) error { return newError(KindSanity, err, msg) }

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
