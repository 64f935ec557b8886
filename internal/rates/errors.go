package rates

import (
	"errors"
	"fmt"

	"github.com/baharkarakas/wallet-api/internal/models"
)

// ErrorKind classifies a failed lookup.
type ErrorKind int

const (
	// KindNone is reported for nil and foreign errors.
	KindNone ErrorKind = iota
	// KindUnsupported: the provider does not quote the currency.
	KindUnsupported
	// KindTransient: network failure, timeout, unexpected status or body.
	KindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindTransient:
		return "transient"
	}
	return "none"
}

type LookupError struct {
	Kind  ErrorKind
	Code  string
	Cause error
}

func (e *LookupError) Error() string {
	if e.Kind == KindUnsupported {
		return fmt.Sprintf("Not supported currency %q", e.Code)
	}
	if e.Cause == nil {
		return fmt.Sprintf("rate lookup for %s failed", e.Code)
	}
	return fmt.Sprintf("rate lookup for %s failed: %v", e.Code, e.Cause)
}

func (e *LookupError) Unwrap() error { return e.Cause }

// KindOf returns the kind of a lookup error anywhere in err's chain.
func KindOf(err error) ErrorKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindNone
}

func unsupported(code string) error {
	return &LookupError{Kind: KindUnsupported, Code: code}
}

func transient(code string, cause error) error {
	return &LookupError{Kind: KindTransient, Code: code, Cause: cause}
}

// Outcome is the result of one lookup in a batch.
type Outcome struct {
	Rate models.Rate
	Err  error
}
