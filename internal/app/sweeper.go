package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"hotel_management/internal/domain"
)

type SweepOptions struct {
	Bucket string
	Prefix string // defaults to "room/"
	// Grace skips objects younger than this; an upload may still be waiting
	// for its metadata commit.
	Grace   time.Duration
	Workers int
	DryRun  bool
	Now     func() time.Time
}

type SweepReport struct {
	Scanned    int64 `json:"scanned"`
	Referenced int64 `json:"referenced"`
	TooRecent  int64 `json:"tooRecent"`
	Orphaned   int64 `json:"orphaned"`
	Deleted    int64 `json:"deleted"`
	Failed     int64 `json:"failed"`
}

// OrphanSweeper deletes stored objects that no room image row references,
// such as those left behind by a failed compensating delete.
type OrphanSweeper struct {
	repo  domain.RoomImageRepository
	store domain.ObjectStore
	opt   SweepOptions
	log   zerolog.Logger
}

func NewOrphanSweeper(repo domain.RoomImageRepository, store domain.ObjectStore, opt SweepOptions, log zerolog.Logger) *OrphanSweeper {
	if opt.Prefix == "" {
		opt.Prefix = "room/"
	}
	if opt.Workers <= 0 {
		opt.Workers = 4
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &OrphanSweeper{repo: repo, store: store, opt: opt, log: log.With().Str("component", "sweeper").Logger()}
}

func (s *OrphanSweeper) Sweep(ctx context.Context) (SweepReport, error) {
	var rep SweepReport

	// List before reading keys: a row committed in between only makes an
	// object look referenced, never orphaned.
	objects, err := s.store.List(ctx, s.opt.Bucket, s.opt.Prefix)
	if err != nil {
		return rep, domain.Internal(err, "Failed to list objects")
	}
	keys, err := s.repo.ImageKeys(ctx)
	if err != nil {
		return rep, domain.Internal(err, "Failed to load image keys")
	}

	cutoff := s.opt.Now().Add(-s.opt.Grace)
	sem := semaphore.NewWeighted(int64(s.opt.Workers))
	var wg sync.WaitGroup

	for _, obj := range objects {
		rep.Scanned++
		if _, ok := keys[obj.Key()]; ok {
			rep.Referenced++
			continue
		}
		if obj.LastModified.After(cutoff) {
			rep.TooRecent++
			continue
		}
		rep.Orphaned++
		if s.opt.DryRun {
			s.log.Info().Str("key", obj.Key()).Int64("size", obj.Size).Msg("orphan (dry run)")
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}
		wg.Add(1)
		go func(o domain.ObjectInfo) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.store.Delete(ctx, s.opt.Bucket, o.Directory, o.FileName); err != nil {
				atomic.AddInt64(&rep.Failed, 1)
				s.log.Warn().Err(err).Str("key", o.Key()).Msg("orphan delete failed")
				return
			}
			atomic.AddInt64(&rep.Deleted, 1)
			s.log.Info().Str("key", o.Key()).Msg("orphan deleted")
		}(obj)
	}

	wg.Wait()
	return rep, nil
}
