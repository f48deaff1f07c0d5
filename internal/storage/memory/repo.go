// Package memory is an in-process domain.Repository used by tests and local
// runs without MySQL. Transactions are serialised and roll back by restoring
// a snapshot of the whole state.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hotel_management/internal/domain"
)

type state struct {
	hotels     map[string]domain.Hotel
	branches   map[string]domain.Branch
	addresses  map[string]domain.Address
	rooms      map[string]domain.Room
	facilities map[int64]domain.Facility
	images     map[int64]domain.RoomImage
	nextFacID  int64
	nextImgID  int64
}

func newState() *state {
	return &state{
		hotels:     map[string]domain.Hotel{},
		branches:   map[string]domain.Branch{},
		addresses:  map[string]domain.Address{},
		rooms:      map[string]domain.Room{},
		facilities: map[int64]domain.Facility{},
		images:     map[int64]domain.RoomImage{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		hotels:     cloneMap(s.hotels),
		branches:   cloneMap(s.branches),
		addresses:  cloneMap(s.addresses),
		rooms:      cloneMap(s.rooms),
		facilities: cloneMap(s.facilities),
		images:     cloneMap(s.images),
		nextFacID:  s.nextFacID,
		nextImgID:  s.nextImgID,
	}
}

type Repo struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
}

var _ domain.Repository = (*Repo)(nil)

func New() *Repo { return &Repo{mu: &sync.Mutex{}, st: newState()} }

func (r *Repo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *Repo) WithinTx(_ context.Context, fn func(tx domain.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.st.clone()
	if err := fn(&Repo{mu: r.mu, st: r.st, inTx: true}); err != nil {
		*r.st = *snapshot
		return err
	}
	return nil
}

func matches(search string, fields ...string) bool {
	s := strings.ToLower(strings.TrimSpace(search))
	if s == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), s) {
			return true
		}
	}
	return false
}

func paginate[T any](all []T, q domain.PageQuery) ([]T, int64) {
	total := int64(len(all))
	start := q.Offset()
	if start >= len(all) {
		return nil, total
	}
	end := start + q.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

func (r *Repo) CreateHotel(_ context.Context, h domain.Hotel) error {
	defer r.lock()()
	if _, ok := r.st.hotels[h.ID]; ok {
		return domain.Conflict("Hotel with id '%s' already exists", h.ID)
	}
	r.st.hotels[h.ID] = h
	return nil
}

func (r *Repo) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	defer r.lock()()
	h, ok := r.st.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.NotFound("Hotel not found with id: %s", id)
	}
	return h, nil
}

func (r *Repo) UpdateHotel(_ context.Context, h domain.Hotel) error {
	defer r.lock()()
	r.st.hotels[h.ID] = h
	return nil
}

func (r *Repo) DeleteHotel(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.st.hotels[id]; !ok {
		return domain.NotFound("Hotel not found with id: %s", id)
	}
	delete(r.st.hotels, id)
	return nil
}

func (r *Repo) ListHotels(_ context.Context, q domain.PageQuery) ([]domain.Hotel, int64, error) {
	defer r.lock()()
	var all []domain.Hotel
	for _, h := range r.st.hotels {
		if matches(q.Search, h.Name) {
			all = append(all, h)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	page, total := paginate(all, q)
	return page, total, nil
}

// -----------------------------------------------------------------------------
// BRANCHES
// -----------------------------------------------------------------------------

func (r *Repo) branchNameTaken(b domain.Branch) bool {
	for _, other := range r.st.branches {
		if other.ID != b.ID && other.HotelID == b.HotelID && other.Name == b.Name {
			return true
		}
	}
	return false
}

func (r *Repo) CreateBranch(_ context.Context, b domain.Branch) error {
	defer r.lock()()
	if r.branchNameTaken(b) {
		return domain.Conflict("Branch with name '%s' already exists for this hotel", b.Name)
	}
	r.st.branches[b.ID] = b
	return nil
}

func (r *Repo) GetBranch(_ context.Context, id string) (domain.Branch, error) {
	defer r.lock()()
	b, ok := r.st.branches[id]
	if !ok {
		return domain.Branch{}, domain.NotFound("Branch not found with id: %s", id)
	}
	return b, nil
}

func (r *Repo) UpdateBranch(_ context.Context, b domain.Branch) error {
	defer r.lock()()
	if r.branchNameTaken(b) {
		return domain.Conflict("Branch with name '%s' already exists for this hotel", b.Name)
	}
	r.st.branches[b.ID] = b
	return nil
}

func (r *Repo) DeleteBranch(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.st.branches[id]; !ok {
		return domain.NotFound("Branch not found with id: %s", id)
	}
	delete(r.st.branches, id)
	return nil
}

func (r *Repo) BranchNameExists(_ context.Context, hotelID, name string) (bool, error) {
	defer r.lock()()
	return r.branchNameTaken(domain.Branch{HotelID: hotelID, Name: name}), nil
}

func (r *Repo) sortedBranches(hotelID, search string) []domain.Branch {
	var all []domain.Branch
	for _, b := range r.st.branches {
		if (hotelID == "" || b.HotelID == hotelID) && matches(search, b.Name) {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (r *Repo) ListBranches(_ context.Context, hotelID string, q domain.PageQuery) ([]domain.Branch, int64, error) {
	defer r.lock()()
	page, total := paginate(r.sortedBranches(hotelID, q.Search), q)
	return page, total, nil
}

func (r *Repo) BranchesOfHotel(_ context.Context, hotelID string) ([]domain.Branch, error) {
	defer r.lock()()
	return r.sortedBranches(hotelID, ""), nil
}

// -----------------------------------------------------------------------------
// ADDRESSES
// -----------------------------------------------------------------------------

func (r *Repo) addressOf(branchID string) (domain.Address, bool) {
	for _, a := range r.st.addresses {
		if a.BranchID == branchID {
			return a, true
		}
	}
	return domain.Address{}, false
}

func (r *Repo) CreateAddress(_ context.Context, a domain.Address) error {
	defer r.lock()()
	if _, ok := r.addressOf(a.BranchID); ok {
		return domain.Conflict("Address already exists for branch id: %s", a.BranchID)
	}
	r.st.addresses[a.ID] = a
	return nil
}

func (r *Repo) GetAddress(_ context.Context, id string) (domain.Address, error) {
	defer r.lock()()
	a, ok := r.st.addresses[id]
	if !ok {
		return domain.Address{}, domain.NotFound("Address not found with id: %s", id)
	}
	return a, nil
}

func (r *Repo) GetAddressByBranch(_ context.Context, branchID string) (domain.Address, error) {
	defer r.lock()()
	a, ok := r.addressOf(branchID)
	if !ok {
		return domain.Address{}, domain.NotFound("Address not found for branch id: %s", branchID)
	}
	return a, nil
}

func (r *Repo) UpdateAddress(_ context.Context, a domain.Address) error {
	defer r.lock()()
	if other, ok := r.addressOf(a.BranchID); ok && other.ID != a.ID {
		return domain.Conflict("Address already exists for branch id: %s", a.BranchID)
	}
	r.st.addresses[a.ID] = a
	return nil
}

func (r *Repo) DeleteAddress(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.st.addresses[id]; !ok {
		return domain.NotFound("Address not found with id: %s", id)
	}
	delete(r.st.addresses, id)
	return nil
}

func (r *Repo) AddressExistsForBranch(_ context.Context, branchID string) (bool, error) {
	defer r.lock()()
	_, ok := r.addressOf(branchID)
	return ok, nil
}

func (r *Repo) ListAddresses(_ context.Context, q domain.PageQuery) ([]domain.Address, int64, error) {
	defer r.lock()()
	var all []domain.Address
	for _, a := range r.st.addresses {
		if matches(q.Search, a.City, a.Country, a.AddressLine) {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		x, y := all[i], all[j]
		if x.Country != y.Country {
			return x.Country < y.Country
		}
		if x.City != y.City {
			return x.City < y.City
		}
		return x.ID < y.ID
	})
	page, total := paginate(all, q)
	return page, total, nil
}
