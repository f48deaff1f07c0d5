package memory

import (
	"context"
	"sort"

	"hotel_management/internal/domain"
)

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

func (r *Repo) roomNumberTaken(rm domain.Room) bool {
	for _, other := range r.st.rooms {
		if other.ID != rm.ID && other.BranchID == rm.BranchID && other.RoomNumber == rm.RoomNumber {
			return true
		}
	}
	return false
}

func (r *Repo) CreateRoom(_ context.Context, rm domain.Room) error {
	defer r.lock()()
	if r.roomNumberTaken(rm) {
		return domain.Conflict("Room number '%s' already exists in this branch", rm.RoomNumber)
	}
	r.st.rooms[rm.ID] = rm
	return nil
}

func (r *Repo) GetRoom(_ context.Context, id string) (domain.Room, error) {
	defer r.lock()()
	rm, ok := r.st.rooms[id]
	if !ok {
		return domain.Room{}, domain.NotFound("Room not found with id: %s", id)
	}
	return rm, nil
}

func (r *Repo) UpdateRoom(_ context.Context, rm domain.Room) error {
	defer r.lock()()
	if r.roomNumberTaken(rm) {
		return domain.Conflict("Room number '%s' already exists in this branch", rm.RoomNumber)
	}
	r.st.rooms[rm.ID] = rm
	return nil
}

func (r *Repo) DeleteRoom(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.st.rooms[id]; !ok {
		return domain.NotFound("Room not found with id: %s", id)
	}
	delete(r.st.rooms, id)
	return nil
}

func (r *Repo) RoomNumberExists(_ context.Context, branchID, number string) (bool, error) {
	defer r.lock()()
	return r.roomNumberTaken(domain.Room{BranchID: branchID, RoomNumber: number}), nil
}

func (r *Repo) ListRooms(_ context.Context, branchID string, q domain.PageQuery) ([]domain.Room, int64, error) {
	defer r.lock()()
	var all []domain.Room
	for _, rm := range r.st.rooms {
		if (branchID == "" || rm.BranchID == branchID) && matches(q.Search, rm.RoomNumber, rm.Type) {
			all = append(all, rm)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].RoomNumber != all[j].RoomNumber {
			return all[i].RoomNumber < all[j].RoomNumber
		}
		return all[i].ID < all[j].ID
	})
	page, total := paginate(all, q)
	return page, total, nil
}

func (r *Repo) CountRooms(_ context.Context, branchID string) (int64, error) {
	defer r.lock()()
	var n int64
	for _, rm := range r.st.rooms {
		if rm.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

// -----------------------------------------------------------------------------
// FACILITIES
// -----------------------------------------------------------------------------

func (r *Repo) facilityNameTaken(f domain.Facility) bool {
	for _, other := range r.st.facilities {
		if other.ID != f.ID && other.RoomID == f.RoomID && other.Name == f.Name {
			return true
		}
	}
	return false
}

func (r *Repo) CreateFacility(_ context.Context, f domain.Facility) (int64, error) {
	defer r.lock()()
	if r.facilityNameTaken(f) {
		return 0, domain.Conflict("Facility '%s' already exists for this room", f.Name)
	}
	r.st.nextFacID++
	f.ID = r.st.nextFacID
	r.st.facilities[f.ID] = f
	return f.ID, nil
}

func (r *Repo) GetFacility(_ context.Context, id int64) (domain.Facility, error) {
	defer r.lock()()
	f, ok := r.st.facilities[id]
	if !ok {
		return domain.Facility{}, domain.NotFound("Facility not found with id: %d", id)
	}
	return f, nil
}

func (r *Repo) UpdateFacility(_ context.Context, f domain.Facility) error {
	defer r.lock()()
	if r.facilityNameTaken(f) {
		return domain.Conflict("Facility '%s' already exists for this room", f.Name)
	}
	r.st.facilities[f.ID] = f
	return nil
}

func (r *Repo) DeleteFacility(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.st.facilities[id]; !ok {
		return domain.NotFound("Facility not found with id: %d", id)
	}
	delete(r.st.facilities, id)
	return nil
}

func (r *Repo) FacilityNameExists(_ context.Context, roomID, name string) (bool, error) {
	defer r.lock()()
	return r.facilityNameTaken(domain.Facility{RoomID: roomID, Name: name}), nil
}

func (r *Repo) sortedFacilities(roomID, search string) []domain.Facility {
	var all []domain.Facility
	for _, f := range r.st.facilities {
		if (roomID == "" || f.RoomID == roomID) && matches(search, f.Name) {
			all = append(all, f)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (r *Repo) ListFacilities(_ context.Context, roomID string, q domain.PageQuery) ([]domain.Facility, int64, error) {
	defer r.lock()()
	page, total := paginate(r.sortedFacilities(roomID, q.Search), q)
	return page, total, nil
}

func (r *Repo) FacilitiesOfRoom(_ context.Context, roomID string) ([]domain.Facility, error) {
	defer r.lock()()
	return r.sortedFacilities(roomID, ""), nil
}

// -----------------------------------------------------------------------------
// ROOM IMAGES
// -----------------------------------------------------------------------------

func (r *Repo) CreateRoomImage(_ context.Context, img domain.RoomImage) (int64, error) {
	defer r.lock()()
	r.st.nextImgID++
	img.ID = r.st.nextImgID
	r.st.images[img.ID] = img
	return img.ID, nil
}

func (r *Repo) GetRoomImage(_ context.Context, id int64) (domain.RoomImage, error) {
	defer r.lock()()
	img, ok := r.st.images[id]
	if !ok {
		return domain.RoomImage{}, domain.NotFound("Room image not found.")
	}
	return img, nil
}

// LockRoomImage relies on WithinTx holding the repository mutex.
func (r *Repo) LockRoomImage(ctx context.Context, id int64) (domain.RoomImage, error) {
	return r.GetRoomImage(ctx, id)
}

func (r *Repo) UpdateRoomImage(_ context.Context, img domain.RoomImage) error {
	defer r.lock()()
	if _, ok := r.st.images[img.ID]; !ok {
		return domain.NotFound("Room image not found.")
	}
	r.st.images[img.ID] = img
	return nil
}

func (r *Repo) DeleteRoomImage(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.st.images[id]; !ok {
		return domain.NotFound("Room image not found.")
	}
	delete(r.st.images, id)
	return nil
}

func (r *Repo) sortedImages(roomID string) []domain.RoomImage {
	var all []domain.RoomImage
	for _, img := range r.st.images {
		if roomID == "" || img.RoomID == roomID {
			all = append(all, img)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (r *Repo) ListRoomImages(_ context.Context, roomID string, q domain.PageQuery) ([]domain.RoomImage, int64, error) {
	defer r.lock()()
	page, total := paginate(r.sortedImages(roomID), q)
	return page, total, nil
}

func (r *Repo) ImagesOfRoom(_ context.Context, roomID string) ([]domain.RoomImage, error) {
	defer r.lock()()
	return r.sortedImages(roomID), nil
}

func (r *Repo) ImageKeys(_ context.Context) (map[string]struct{}, error) {
	defer r.lock()()
	keys := make(map[string]struct{}, len(r.st.images))
	for _, img := range r.st.images {
		keys[img.Descriptor.Key()] = struct{}{}
	}
	return keys, nil
}
