package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotel_management/internal/domain"
)

func roomNotFound(id string) error { return domain.NotFound("Room not found with id: %s", id) }
func facilityNotFound(id int64) error {
	return domain.NotFound("Facility not found with id: %d", id)
}
func imageNotFound() error { return domain.NotFound("Room image not found.") }

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

func scanRoom(s rowScanner) (domain.Room, error) {
	var rm domain.Room
	err := s.Scan(&rm.ID, &rm.BranchID, &rm.RoomNumber, &rm.Type, &rm.BedCount, &rm.Price, &rm.Available)
	return rm, err
}

func roomConflict(number string) string {
	return fmt.Sprintf("Room number '%s' already exists in this branch", number)
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.write(ctx, roomConflict(rm.RoomNumber), insertRoomSQL,
		rm.ID, rm.BranchID, rm.RoomNumber, rm.Type, rm.BedCount, rm.Price, rm.Available)
	return err
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	rm, err := scanRoom(r.q.QueryRowContext(ctx, selectRoomSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, roomNotFound(id)
	}
	return rm, err
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.write(ctx, roomConflict(rm.RoomNumber), updateRoomSQL,
		rm.BranchID, rm.RoomNumber, rm.Type, rm.BedCount, rm.Price, rm.Available, rm.ID)
	return err
}

func (r *Repo) DeleteRoom(ctx context.Context, id string) error {
	return r.remove(ctx, deleteRoomSQL, id, roomNotFound(id))
}

func (r *Repo) RoomNumberExists(ctx context.Context, branchID, number string) (bool, error) {
	return r.exists(ctx, roomNumberExistsSQL, branchID, number)
}

func (r *Repo) ListRooms(ctx context.Context, branchID string, q domain.PageQuery) ([]domain.Room, int64, error) {
	s, like := search(q)
	total, err := r.count(ctx, countRoomsSQL, branchID, branchID, s, like, like)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx, listRoomsSQL, branchID, branchID, s, like, like, q.Size, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rm)
	}
	return out, total, rows.Err()
}

func (r *Repo) CountRooms(ctx context.Context, branchID string) (int64, error) {
	return r.count(ctx, countRoomsOfBranchSQL, branchID)
}

// -----------------------------------------------------------------------------
// FACILITIES
// -----------------------------------------------------------------------------

func scanFacility(s rowScanner) (domain.Facility, error) {
	var f domain.Facility
	err := s.Scan(&f.ID, &f.RoomID, &f.Name)
	return f, err
}

func (r *Repo) scanFacilities(rows *sql.Rows) ([]domain.Facility, error) {
	defer rows.Close()
	var out []domain.Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func facilityConflict(name string) string {
	return fmt.Sprintf("Facility '%s' already exists for this room", name)
}

func (r *Repo) CreateFacility(ctx context.Context, f domain.Facility) (int64, error) {
	res, err := r.write(ctx, facilityConflict(f.Name), insertFacilitySQL, f.RoomID, f.Name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetFacility(ctx context.Context, id int64) (domain.Facility, error) {
	f, err := scanFacility(r.q.QueryRowContext(ctx, selectFacilitySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Facility{}, facilityNotFound(id)
	}
	return f, err
}

func (r *Repo) UpdateFacility(ctx context.Context, f domain.Facility) error {
	_, err := r.write(ctx, facilityConflict(f.Name), updateFacilitySQL, f.RoomID, f.Name, f.ID)
	return err
}

func (r *Repo) DeleteFacility(ctx context.Context, id int64) error {
	return r.remove(ctx, deleteFacilitySQL, id, facilityNotFound(id))
}

func (r *Repo) FacilityNameExists(ctx context.Context, roomID, name string) (bool, error) {
	return r.exists(ctx, facilityNameExistsSQL, roomID, name)
}

func (r *Repo) ListFacilities(ctx context.Context, roomID string, q domain.PageQuery) ([]domain.Facility, int64, error) {
	s, like := search(q)
	total, err := r.count(ctx, countFacilitiesSQL, roomID, roomID, s, like)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx, listFacilitiesSQL, roomID, roomID, s, like, q.Size, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	out, err := r.scanFacilities(rows)
	return out, total, err
}

func (r *Repo) FacilitiesOfRoom(ctx context.Context, roomID string) ([]domain.Facility, error) {
	rows, err := r.q.QueryContext(ctx, facilitiesOfRoomSQL, roomID)
	if err != nil {
		return nil, err
	}
	return r.scanFacilities(rows)
}

// -----------------------------------------------------------------------------
// ROOM IMAGES
// -----------------------------------------------------------------------------

// Descriptor columns are binary so object keys round-trip byte for byte.
func scanRoomImage(s rowScanner) (domain.RoomImage, error) {
	var (
		img                        domain.RoomImage
		name, url, directory, hash []byte
	)
	if err := s.Scan(&img.ID, &img.RoomID, &name, &url, &directory, &hash); err != nil {
		return domain.RoomImage{}, err
	}
	img.Descriptor = domain.Descriptor{
		FileName:    string(name),
		ResourceURL: string(url),
		Directory:   string(directory),
		Hash:        string(hash),
	}
	return img, nil
}

func (r *Repo) scanRoomImages(rows *sql.Rows) ([]domain.RoomImage, error) {
	defer rows.Close()
	var out []domain.RoomImage
	for rows.Next() {
		img, err := scanRoomImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repo) CreateRoomImage(ctx context.Context, img domain.RoomImage) (int64, error) {
	d := img.Descriptor
	res, err := r.q.ExecContext(ctx, insertRoomImageSQL,
		img.RoomID, []byte(d.FileName), []byte(d.ResourceURL), []byte(d.Directory), []byte(d.Hash))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) getRoomImage(ctx context.Context, query string, id int64) (domain.RoomImage, error) {
	img, err := scanRoomImage(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomImage{}, imageNotFound()
	}
	return img, err
}

func (r *Repo) GetRoomImage(ctx context.Context, id int64) (domain.RoomImage, error) {
	return r.getRoomImage(ctx, selectRoomImageSQL, id)
}

// LockRoomImage only holds the lock when called inside WithinTx.
func (r *Repo) LockRoomImage(ctx context.Context, id int64) (domain.RoomImage, error) {
	return r.getRoomImage(ctx, lockRoomImageSQL, id)
}

func (r *Repo) UpdateRoomImage(ctx context.Context, img domain.RoomImage) error {
	d := img.Descriptor
	_, err := r.q.ExecContext(ctx, updateRoomImageSQL,
		img.RoomID, []byte(d.FileName), []byte(d.ResourceURL), []byte(d.Directory), []byte(d.Hash), img.ID)
	return err
}

func (r *Repo) DeleteRoomImage(ctx context.Context, id int64) error {
	return r.remove(ctx, deleteRoomImageSQL, id, imageNotFound())
}

func (r *Repo) ListRoomImages(ctx context.Context, roomID string, q domain.PageQuery) ([]domain.RoomImage, int64, error) {
	total, err := r.count(ctx, countRoomImagesSQL, roomID, roomID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx, listRoomImagesSQL, roomID, roomID, q.Size, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	out, err := r.scanRoomImages(rows)
	return out, total, err
}

func (r *Repo) ImagesOfRoom(ctx context.Context, roomID string) ([]domain.RoomImage, error) {
	rows, err := r.q.QueryContext(ctx, imagesOfRoomSQL, roomID)
	if err != nil {
		return nil, err
	}
	return r.scanRoomImages(rows)
}

func (r *Repo) ImageKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.q.QueryContext(ctx, imageKeysSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var directory, name []byte
		if err := rows.Scan(&directory, &name); err != nil {
			return nil, err
		}
		keys[string(directory)+string(name)] = struct{}{}
	}
	return keys, rows.Err()
}
