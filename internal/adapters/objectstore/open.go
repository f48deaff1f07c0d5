package objectstore

import (
	"context"
	"fmt"

	"hotel_management/internal/domain"
)

type Settings struct {
	Driver string // s3 | fs
	S3     S3Config
	FSRoot string
	// FSPublicBaseURL prefixes filesystem resource URLs; empty means file:// URLs.
	FSPublicBaseURL string
	// RPS caps calls per second against the store; 0 disables the limit.
	RPS int
}

// Open builds the configured driver wrapped with metrics and rate limiting.
func Open(ctx context.Context, s Settings) (domain.ObjectStore, error) {
	var (
		store domain.ObjectStore
		err   error
	)
	switch s.Driver {
	case "s3":
		store, err = NewS3(ctx, s.S3)
	case "fs":
		store, err = NewFilesystemStore(s.FSRoot, s.FSPublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown object store driver %q", s.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumented(store, s.Driver, s.RPS), nil
}
