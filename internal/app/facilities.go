package app

import (
	"context"
	"strings"

	"hotel_management/internal/domain"
)

type FacilityInput struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

func (in FacilityInput) validate(create bool) error {
	if create && strings.TrimSpace(in.RoomID) == "" {
		return domain.Invalid("roomId is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name is required")
	}
	return nil
}

type FacilityService struct {
	repo  domain.Repository
	views *viewCache
}

func facilityConflict(name string) error {
	return domain.Conflict("Facility '%s' already exists for this room", name)
}

func (s *FacilityService) Create(ctx context.Context, in FacilityInput) (int64, error) {
	if err := in.validate(true); err != nil {
		return 0, err
	}
	f := domain.Facility{RoomID: in.RoomID, Name: strings.TrimSpace(in.Name)}
	err := inTx(ctx, s.repo, "Failed to create facility", func(tx domain.Repository) error {
		if _, err := tx.GetRoom(ctx, f.RoomID); err != nil {
			return err
		}
		taken, err := tx.FacilityNameExists(ctx, f.RoomID, f.Name)
		if err != nil {
			return err
		}
		if taken {
			return facilityConflict(f.Name)
		}
		id, err := tx.CreateFacility(ctx, f)
		f.ID = id
		return err
	})
	if err != nil {
		return 0, err
	}
	s.views.invalidate(ctx, roomKey(f.RoomID))
	return f.ID, nil
}

func (s *FacilityService) Update(ctx context.Context, id int64, in FacilityInput) error {
	if err := in.validate(false); err != nil {
		return err
	}
	var oldRoom, newRoom string
	err := inTx(ctx, s.repo, "Failed to update facility", func(tx domain.Repository) error {
		f, err := tx.GetFacility(ctx, id)
		if err != nil {
			return err
		}
		oldRoom, newRoom = f.RoomID, f.RoomID
		if in.RoomID != "" && in.RoomID != f.RoomID {
			if _, err := tx.GetRoom(ctx, in.RoomID); err != nil {
				return err
			}
			newRoom = in.RoomID
		}
		name := strings.TrimSpace(in.Name)
		if name != f.Name || newRoom != f.RoomID {
			taken, err := tx.FacilityNameExists(ctx, newRoom, name)
			if err != nil {
				return err
			}
			if taken {
				return facilityConflict(name)
			}
		}
		f.RoomID = newRoom
		f.Name = name
		return tx.UpdateFacility(ctx, f)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, roomKey(oldRoom), roomKey(newRoom))
	return nil
}

func (s *FacilityService) Delete(ctx context.Context, id int64) error {
	var roomID string
	err := inTx(ctx, s.repo, "Failed to delete facility", func(tx domain.Repository) error {
		f, err := tx.GetFacility(ctx, id)
		if err != nil {
			return err
		}
		roomID = f.RoomID
		return tx.DeleteFacility(ctx, id)
	})
	if err != nil {
		return err
	}
	s.views.invalidate(ctx, roomKey(roomID))
	return nil
}

func (s *FacilityService) FindByID(ctx context.Context, id int64) (domain.FacilityView, error) {
	f, err := s.repo.GetFacility(ctx, id)
	if err != nil {
		return domain.FacilityView{}, domain.AsInternal(err, "Failed to load facility")
	}
	return toFacilityView(f), nil
}

// FindAll lists facilities, optionally scoped to roomID ("" = every room).
func (s *FacilityService) FindAll(ctx context.Context, roomID string, q domain.PageQuery) (domain.Page[domain.FacilityView], error) {
	items, total, err := readPage(q, "facilities", func() ([]domain.Facility, int64, error) {
		if roomID != "" {
			if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
				return nil, 0, err
			}
		}
		return s.repo.ListFacilities(ctx, roomID, q)
	})
	if err != nil {
		return domain.Page[domain.FacilityView]{}, err
	}
	return toPage(items, total, toFacilityView), nil
}
