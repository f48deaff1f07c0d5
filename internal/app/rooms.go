package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hotel_management/internal/domain"
)

type RoomInput struct {
	BranchID    string  `json:"branchId"`
	RoomNumber  string  `json:"roomNumber"`
	Type        string  `json:"roomType"`
	BedCount    int     `json:"bedCount"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
}

func (in RoomInput) validate(create bool) error {
	switch {
	case create && strings.TrimSpace(in.BranchID) == "":
		return domain.Invalid("branchId is required")
	case strings.TrimSpace(in.RoomNumber) == "":
		return domain.Invalid("roomNumber is required")
	case in.BedCount < 0:
		return domain.Invalid("bedCount must not be negative")
	case in.Price < 0:
		return domain.Invalid("price must not be negative")
	}
	return nil
}

type RoomService struct {
	repo  domain.Repository
	views *viewCache
}

func roomNumberConflict(number string) error {
	return domain.Conflict("Room number '%s' already exists in this branch", number)
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (string, error) {
	if err := in.validate(true); err != nil {
		return "", err
	}
	r := domain.Room{
		ID:         uuid.NewString(),
		BranchID:   in.BranchID,
		RoomNumber: strings.TrimSpace(in.RoomNumber),
		Type:       in.Type,
		BedCount:   in.BedCount,
		Price:      in.Price,
		Available:  in.IsAvailable,
	}
	err := inTx(ctx, s.repo, "Failed to create room", func(tx domain.Repository) error {
		if _, err := tx.GetBranch(ctx, r.BranchID); err != nil {
			return err
		}
		taken, err := tx.RoomNumberExists(ctx, r.BranchID, r.RoomNumber)
		if err != nil {
			return err
		}
		if taken {
			return roomNumberConflict(r.RoomNumber)
		}
		return tx.CreateRoom(ctx, r)
	})
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *RoomService) Update(ctx context.Context, id string, in RoomInput) error {
	if err := in.validate(false); err != nil {
		return err
	}
	err := inTx(ctx, s.repo, "Failed to update room", func(tx domain.Repository) error {
		r, err := tx.GetRoom(ctx, id)
		if err != nil {
			return err
		}
		branchID := r.BranchID
		if in.BranchID != "" && in.BranchID != r.BranchID {
			if _, err := tx.GetBranch(ctx, in.BranchID); err != nil {
				return err
			}
			branchID = in.BranchID
		}
		number := strings.TrimSpace(in.RoomNumber)
		if number != r.RoomNumber || branchID != r.BranchID {
			taken, err := tx.RoomNumberExists(ctx, branchID, number)
			if err != nil {
				return err
			}
			if taken {
				return roomNumberConflict(number)
			}
		}
		r.BranchID = branchID
		r.RoomNumber = number
		r.Type = in.Type
		r.BedCount = in.BedCount
		r.Price = in.Price
		r.Available = in.IsAvailable
		return tx.UpdateRoom(ctx, r)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, roomKey(id))
	return nil
}

func (s *RoomService) Delete(ctx context.Context, id string) error {
	err := inTx(ctx, s.repo, "Failed to delete room", func(tx domain.Repository) error {
		if _, err := tx.GetRoom(ctx, id); err != nil {
			return err
		}
		facilities, err := tx.FacilitiesOfRoom(ctx, id)
		if err != nil {
			return err
		}
		if len(facilities) > 0 {
			return domain.Conflict("Cannot delete room with id: %s. It has associated facilities.", id)
		}
		images, err := tx.ImagesOfRoom(ctx, id)
		if err != nil {
			return err
		}
		if len(images) > 0 {
			return domain.Conflict("Cannot delete room with id: %s. It has associated images.", id)
		}
		return tx.DeleteRoom(ctx, id)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, roomKey(id))
	return nil
}

func (s *RoomService) FindByID(ctx context.Context, id string) (domain.RoomView, error) {
	return cached(ctx, s.views, roomKey(id), func(ctx context.Context) (domain.RoomView, error) {
		r, err := s.repo.GetRoom(ctx, id)
		if err != nil {
			return domain.RoomView{}, domain.AsInternal(err, "Failed to load room")
		}
		return s.view(ctx, r)
	})
}

func (s *RoomService) view(ctx context.Context, r domain.Room) (domain.RoomView, error) {
	facilities, err := s.repo.FacilitiesOfRoom(ctx, r.ID)
	if err != nil {
		return domain.RoomView{}, domain.AsInternal(err, "Failed to load room")
	}
	images, err := s.repo.ImagesOfRoom(ctx, r.ID)
	if err != nil {
		return domain.RoomView{}, domain.AsInternal(err, "Failed to load room")
	}
	return toRoomView(r, facilities, images), nil
}

// FindAll lists rooms, optionally scoped to branchID ("" = every branch).
func (s *RoomService) FindAll(ctx context.Context, branchID string, q domain.PageQuery) (domain.Page[domain.RoomView], error) {
	rooms, total, err := readPage(q, "rooms", func() ([]domain.Room, int64, error) {
		if branchID != "" {
			if _, err := s.repo.GetBranch(ctx, branchID); err != nil {
				return nil, 0, err
			}
		}
		return s.repo.ListRooms(ctx, branchID, q)
	})
	if err != nil {
		return domain.Page[domain.RoomView]{}, err
	}
	views := make([]domain.RoomView, 0, len(rooms))
	for _, r := range rooms {
		v, err := s.view(ctx, r)
		if err != nil {
			return domain.Page[domain.RoomView]{}, err
		}
		views = append(views, v)
	}
	return domain.Page[domain.RoomView]{DataList: views, DataCount: total}, nil
}
