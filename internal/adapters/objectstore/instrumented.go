package objectstore

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"hotel_management/internal/adapters/observability"
	"hotel_management/internal/domain"
)

// Instrumented wraps a store with metrics and an optional client-side
// token bucket.
type Instrumented struct {
	next    domain.ObjectStore
	service string
	rl      *rate.Limiter
}

var _ domain.ObjectStore = (*Instrumented)(nil)

// NewInstrumented limits calls to rps per second; rps <= 0 disables the limit.
func NewInstrumented(next domain.ObjectStore, service string, rps int) *Instrumented {
	s := &Instrumented{next: next, service: service}
	if rps > 0 {
		s.rl = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return s
}

func (s *Instrumented) wait(ctx context.Context) error {
	if s.rl == nil {
		return nil
	}
	return s.rl.Wait(ctx)
}

func (s *Instrumented) Put(ctx context.Context, file domain.FilePayload, keyPrefix, bucket string) (domain.Descriptor, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Descriptor{}, err
	}
	start := time.Now()
	d, err := s.next.Put(ctx, file, keyPrefix, bucket)
	observability.ObserveExternal(s.service, "put", err, time.Since(start))
	return d, err
}

func (s *Instrumented) Delete(ctx context.Context, bucket, directory, fileName string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := s.next.Delete(ctx, bucket, directory, fileName)
	observability.ObserveExternal(s.service, "delete", err, time.Since(start))
	return err
}

func (s *Instrumented) List(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := s.next.List(ctx, bucket, prefix)
	observability.ObserveExternal(s.service, "list", err, time.Since(start))
	return out, err
}
