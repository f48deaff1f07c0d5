package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hotel_management/internal/domain"
)

type AddressInput struct {
	BranchID    string  `json:"branchId"`
	AddressLine string  `json:"addressLine"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (in AddressInput) validate(create bool) error {
	switch {
	case create && strings.TrimSpace(in.BranchID) == "":
		return domain.Invalid("branchId is required")
	case strings.TrimSpace(in.AddressLine) == "":
		return domain.Invalid("addressLine is required")
	case in.Latitude < -90 || in.Latitude > 90:
		return domain.Invalid("latitude must be between -90 and 90")
	case in.Longitude < -180 || in.Longitude > 180:
		return domain.Invalid("longitude must be between -180 and 180")
	}
	return nil
}

type AddressService struct {
	repo domain.Repository
}

func (s *AddressService) Create(ctx context.Context, in AddressInput) (string, error) {
	if err := in.validate(true); err != nil {
		return "", err
	}
	a := domain.Address{
		ID:          uuid.NewString(),
		BranchID:    in.BranchID,
		AddressLine: in.AddressLine,
		City:        in.City,
		Country:     in.Country,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	err := inTx(ctx, s.repo, "Failed to create address", func(tx domain.Repository) error {
		if _, err := tx.GetBranch(ctx, a.BranchID); err != nil {
			return err
		}
		exists, err := tx.AddressExistsForBranch(ctx, a.BranchID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("Address already exists for branch id: %s", a.BranchID)
		}
		return tx.CreateAddress(ctx, a)
	})
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *AddressService) Update(ctx context.Context, id string, in AddressInput) error {
	if err := in.validate(false); err != nil {
		return err
	}
	return inTx(ctx, s.repo, "Failed to update address", func(tx domain.Repository) error {
		a, err := tx.GetAddress(ctx, id)
		if err != nil {
			return err
		}
		if in.BranchID != "" && in.BranchID != a.BranchID {
			if _, err := tx.GetBranch(ctx, in.BranchID); err != nil {
				return err
			}
			exists, err := tx.AddressExistsForBranch(ctx, in.BranchID)
			if err != nil {
				return err
			}
			if exists {
				return domain.Conflict("Address already exists for branch id: %s", in.BranchID)
			}
			a.BranchID = in.BranchID
		}
		a.AddressLine = in.AddressLine
		a.City = in.City
		a.Country = in.Country
		a.Latitude = in.Latitude
		a.Longitude = in.Longitude
		return tx.UpdateAddress(ctx, a)
	})
}

func (s *AddressService) Delete(ctx context.Context, id string) error {
	return inTx(ctx, s.repo, "Failed to delete address", func(tx domain.Repository) error {
		return tx.DeleteAddress(ctx, id)
	})
}

func (s *AddressService) FindByID(ctx context.Context, id string) (domain.AddressView, error) {
	a, err := s.repo.GetAddress(ctx, id)
	if err != nil {
		return domain.AddressView{}, domain.AsInternal(err, "Failed to load address")
	}
	return toAddressView(a), nil
}

func (s *AddressService) FindByBranch(ctx context.Context, branchID string) (domain.AddressView, error) {
	if _, err := s.repo.GetBranch(ctx, branchID); err != nil {
		return domain.AddressView{}, domain.AsInternal(err, "Failed to load address")
	}
	a, err := s.repo.GetAddressByBranch(ctx, branchID)
	if err != nil {
		return domain.AddressView{}, domain.AsInternal(err, "Failed to load address")
	}
	return toAddressView(a), nil
}

func (s *AddressService) FindAll(ctx context.Context, q domain.PageQuery) (domain.Page[domain.AddressView], error) {
	items, total, err := readPage(q, "addresses", func() ([]domain.Address, int64, error) {
		return s.repo.ListAddresses(ctx, q)
	})
	if err != nil {
		return domain.Page[domain.AddressView]{}, err
	}
	return toPage(items, total, toAddressView), nil
}
