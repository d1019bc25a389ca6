// Package cloud is the boundary to the compute backend. The core only ever
// sees the Provider interface and the typed Error; the concrete adapter
// shells out to the gcloud CLI.
package cloud

import (
	"context"
	"errors"

	"github.com/g1c/g1c/internal/models"
)

// Provider lists instances and issues lifecycle calls against them.
type Provider interface {
	List(ctx context.Context) ([]models.Instance, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Restart(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Project() string
	Region() string
	Version(ctx context.Context) (string, error)
}

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	KindTransient ErrorKind = iota
	KindUnauthenticated
	KindNotFound
	KindRateLimited
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	case KindFatal:
		return "fatal"
	}
	return "transient"
}

// Error is a typed provider failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Classify extracts the error kind from err, defaulting to transient for
// anything that is not a provider error.
func Classify(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindTransient
}

// IsFatal reports whether err should abort startup when it occurs on the
// first poll. Later polls degrade the same errors to stale data instead.
func IsFatal(err error) bool {
	k := Classify(err)
	return k == KindUnauthenticated || k == KindFatal
}
