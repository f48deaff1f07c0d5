package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hotel_management/internal/domain"
)

// Options configures the application services.
type Options struct {
	// Bucket is the object store bucket room images are written to.
	Bucket string

	Cache    domain.Cache
	CacheTTL time.Duration

	// CompensationTimeout bounds a compensating delete, which runs detached
	// from the request context.
	CompensationTimeout time.Duration
	// OnCompensation is called after every compensating delete with the
	// operation name and the delete's outcome.
	OnCompensation func(op string, err error)

	Logger zerolog.Logger
	Now    func() time.Time
}

type Services struct {
	Hotels     *HotelService
	Branches   *BranchService
	Addresses  *AddressService
	Rooms      *RoomService
	Facilities *FacilityService
	Images     *MediaCoordinator
}

func New(repo domain.Repository, store domain.ObjectStore, opt Options) *Services {
	if opt.Now == nil {
		opt.Now = func() time.Time { return time.Now().UTC() }
	}
	if opt.CompensationTimeout <= 0 {
		opt.CompensationTimeout = 10 * time.Second
	}
	views := newViewCache(opt.Cache, opt.CacheTTL, opt.Logger)

	return &Services{
		Hotels:     &HotelService{repo: repo, views: views, now: opt.Now},
		Branches:   &BranchService{repo: repo, views: views},
		Addresses:  &AddressService{repo: repo},
		Rooms:      &RoomService{repo: repo, views: views},
		Facilities: &FacilityService{repo: repo, views: views},
		Images:     newMediaCoordinator(repo, store, views, opt),
	}
}

// readPage validates q and wraps repository failures on paginated reads.
func readPage[T any](q domain.PageQuery, what string, fn func() ([]T, int64, error)) ([]T, int64, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}
	items, total, err := fn()
	if err != nil {
		return nil, 0, domain.AsInternal(err, "Failed to load %s", what)
	}
	return items, total, nil
}

func inTx(ctx context.Context, repo domain.Repository, failMsg string, fn func(tx domain.Repository) error) error {
	return domain.AsInternal(repo.WithinTx(ctx, fn), "%s", failMsg)
}
