package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel_management/internal/domain"
)

type HotelInput struct {
	Name          string  `json:"hotelName"`
	Description   string  `json:"description"`
	StarRating    int     `json:"starRating"`
	StartingPrice float64 `json:"startingPrice"`
}

func (in HotelInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.Invalid("hotelName is required")
	case in.StarRating < 0 || in.StarRating > 5:
		return domain.Invalid("starRating must be between 0 and 5")
	case in.StartingPrice < 0:
		return domain.Invalid("startingPrice must not be negative")
	}
	return nil
}

type HotelService struct {
	repo  domain.Repository
	views *viewCache
	now   func() time.Time
}

func (s *HotelService) Create(ctx context.Context, in HotelInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	now := s.now().Truncate(time.Millisecond)
	h := domain.Hotel{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		StarRating:    in.StarRating,
		StartingPrice: in.StartingPrice,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return "", domain.AsInternal(err, "Failed to create hotel")
	}
	return h.ID, nil
}

func (s *HotelService) Update(ctx context.Context, id string, in HotelInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	err := inTx(ctx, s.repo, "Failed to update hotel", func(tx domain.Repository) error {
		h, err := tx.GetHotel(ctx, id)
		if err != nil {
			return err
		}
		h.Name = strings.TrimSpace(in.Name)
		h.Description = in.Description
		h.StarRating = in.StarRating
		h.StartingPrice = in.StartingPrice
		h.UpdatedAt = s.now().Truncate(time.Millisecond)
		return tx.UpdateHotel(ctx, h)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, hotelKey(id))
	return nil
}

func (s *HotelService) Delete(ctx context.Context, id string) error {
	err := inTx(ctx, s.repo, "Failed to delete hotel", func(tx domain.Repository) error {
		if _, err := tx.GetHotel(ctx, id); err != nil {
			return err
		}
		branches, err := tx.BranchesOfHotel(ctx, id)
		if err != nil {
			return err
		}
		if len(branches) > 0 {
			return domain.Conflict("Cannot delete hotel with id: %s. It has associated branches.", id)
		}
		return tx.DeleteHotel(ctx, id)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, hotelKey(id))
	return nil
}

func (s *HotelService) FindByID(ctx context.Context, id string) (domain.HotelView, error) {
	return cached(ctx, s.views, hotelKey(id), func(ctx context.Context) (domain.HotelView, error) {
		h, err := s.repo.GetHotel(ctx, id)
		if err != nil {
			return domain.HotelView{}, domain.AsInternal(err, "Failed to load hotel")
		}
		branches, err := s.repo.BranchesOfHotel(ctx, id)
		if err != nil {
			return domain.HotelView{}, domain.AsInternal(err, "Failed to load hotel")
		}
		return toHotelView(h, branches), nil
	})
}

func (s *HotelService) FindAll(ctx context.Context, q domain.PageQuery) (domain.Page[domain.HotelView], error) {
	hotels, total, err := readPage(q, "hotels", func() ([]domain.Hotel, int64, error) {
		return s.repo.ListHotels(ctx, q)
	})
	if err != nil {
		return domain.Page[domain.HotelView]{}, err
	}
	views := make([]domain.HotelView, 0, len(hotels))
	for _, h := range hotels {
		branches, err := s.repo.BranchesOfHotel(ctx, h.ID)
		if err != nil {
			return domain.Page[domain.HotelView]{}, domain.AsInternal(err, "Failed to load hotels")
		}
		views = append(views, toHotelView(h, branches))
	}
	return domain.Page[domain.HotelView]{DataList: views, DataCount: total}, nil
}
