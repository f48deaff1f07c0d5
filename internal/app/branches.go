package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hotel_management/internal/domain"
)

type BranchInput struct {
	HotelID   string `json:"hotelId"`
	Name      string `json:"branchName"`
	Type      string `json:"branchType"`
	RoomCount int    `json:"roomCount"`
}

func (in BranchInput) validate(create bool) error {
	switch {
	case create && strings.TrimSpace(in.HotelID) == "":
		return domain.Invalid("hotelId is required")
	case strings.TrimSpace(in.Name) == "":
		return domain.Invalid("branchName is required")
	case in.RoomCount < 0:
		return domain.Invalid("roomCount must not be negative")
	}
	return nil
}

type BranchService struct {
	repo  domain.Repository
	views *viewCache
}

func (s *BranchService) Create(ctx context.Context, in BranchInput) (string, error) {
	if err := in.validate(true); err != nil {
		return "", err
	}
	b := domain.Branch{
		ID:        uuid.NewString(),
		HotelID:   in.HotelID,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		RoomCount: in.RoomCount,
	}
	err := inTx(ctx, s.repo, "Failed to create branch", func(tx domain.Repository) error {
		if _, err := tx.GetHotel(ctx, b.HotelID); err != nil {
			return err
		}
		taken, err := tx.BranchNameExists(ctx, b.HotelID, b.Name)
		if err != nil {
			return err
		}
		if taken {
			return domain.Conflict("Branch with name '%s' already exists for this hotel", b.Name)
		}
		return tx.CreateBranch(ctx, b)
	})
	if err != nil {
		return "", err
	}
	s.views.invalidate(ctx, hotelKey(b.HotelID))
	return b.ID, nil
}

// Update may move the branch to another hotel when in.HotelID differs.
func (s *BranchService) Update(ctx context.Context, id string, in BranchInput) error {
	if err := in.validate(false); err != nil {
		return err
	}
	var oldHotel, newHotel string
	err := inTx(ctx, s.repo, "Failed to update branch", func(tx domain.Repository) error {
		b, err := tx.GetBranch(ctx, id)
		if err != nil {
			return err
		}
		oldHotel = b.HotelID
		newHotel = b.HotelID
		if in.HotelID != "" && in.HotelID != b.HotelID {
			if _, err := tx.GetHotel(ctx, in.HotelID); err != nil {
				return err
			}
			newHotel = in.HotelID
		}
		name := strings.TrimSpace(in.Name)
		if name != b.Name || newHotel != b.HotelID {
			taken, err := tx.BranchNameExists(ctx, newHotel, name)
			if err != nil {
				return err
			}
			if taken {
				return domain.Conflict("Branch with name '%s' already exists for this hotel", name)
			}
		}
		b.HotelID = newHotel
		b.Name = name
		b.Type = in.Type
		b.RoomCount = in.RoomCount
		return tx.UpdateBranch(ctx, b)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, hotelKey(oldHotel), hotelKey(newHotel))
	return nil
}

func (s *BranchService) Delete(ctx context.Context, id string) error {
	var hotelID string
	err := inTx(ctx, s.repo, "Failed to delete branch", func(tx domain.Repository) error {
		b, err := tx.GetBranch(ctx, id)
		if err != nil {
			return err
		}
		hotelID = b.HotelID
		rooms, err := tx.CountRooms(ctx, id)
		if err != nil {
			return err
		}
		if rooms > 0 {
			return domain.Conflict("Cannot delete branch with id: %s. It has associated rooms.", id)
		}
		hasAddress, err := tx.AddressExistsForBranch(ctx, id)
		if err != nil {
			return err
		}
		if hasAddress {
			return domain.Conflict("Cannot delete branch with id: %s. It has an associated address.", id)
		}
		return tx.DeleteBranch(ctx, id)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, hotelKey(hotelID))
	return nil
}

func (s *BranchService) FindByID(ctx context.Context, id string) (domain.BranchView, error) {
	b, err := s.repo.GetBranch(ctx, id)
	if err != nil {
		return domain.BranchView{}, domain.AsInternal(err, "Failed to load branch")
	}
	return toBranchView(b), nil
}

func (s *BranchService) FindAll(ctx context.Context, q domain.PageQuery) (domain.Page[domain.BranchView], error) {
	items, total, err := readPage(q, "branches", func() ([]domain.Branch, int64, error) {
		return s.repo.ListBranches(ctx, "", q)
	})
	if err != nil {
		return domain.Page[domain.BranchView]{}, err
	}
	return toPage(items, total, toBranchView), nil
}

func (s *BranchService) FindAllByHotel(ctx context.Context, hotelID string, q domain.PageQuery) (domain.Page[domain.BranchView], error) {
	items, total, err := readPage(q, "branches", func() ([]domain.Branch, int64, error) {
		if _, err := s.repo.GetHotel(ctx, hotelID); err != nil {
			return nil, 0, err
		}
		return s.repo.ListBranches(ctx, hotelID, q)
	})
	if err != nil {
		return domain.Page[domain.BranchView]{}, err
	}
	return toPage(items, total, toBranchView), nil
}
