package domain

import "context"

// Lookups by id return an error matching ErrNotFound when the row is absent.
// List methods take an optional parent id ("" = all rows) and return the
// requested page plus the total count of matching rows.

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) error
	GetHotel(ctx context.Context, id string) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id string) error
	ListHotels(ctx context.Context, q PageQuery) ([]Hotel, int64, error)
}

type BranchRepository interface {
	CreateBranch(ctx context.Context, b Branch) error
	GetBranch(ctx context.Context, id string) (Branch, error)
	UpdateBranch(ctx context.Context, b Branch) error
	DeleteBranch(ctx context.Context, id string) error
	BranchNameExists(ctx context.Context, hotelID, name string) (bool, error)
	ListBranches(ctx context.Context, hotelID string, q PageQuery) ([]Branch, int64, error)
	BranchesOfHotel(ctx context.Context, hotelID string) ([]Branch, error)
}

type AddressRepository interface {
	CreateAddress(ctx context.Context, a Address) error
	GetAddress(ctx context.Context, id string) (Address, error)
	GetAddressByBranch(ctx context.Context, branchID string) (Address, error)
	UpdateAddress(ctx context.Context, a Address) error
	DeleteAddress(ctx context.Context, id string) error
	AddressExistsForBranch(ctx context.Context, branchID string) (bool, error)
	ListAddresses(ctx context.Context, q PageQuery) ([]Address, int64, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id string) error
	RoomNumberExists(ctx context.Context, branchID, number string) (bool, error)
	ListRooms(ctx context.Context, branchID string, q PageQuery) ([]Room, int64, error)
	CountRooms(ctx context.Context, branchID string) (int64, error)
}

type FacilityRepository interface {
	CreateFacility(ctx context.Context, f Facility) (int64, error)
	GetFacility(ctx context.Context, id int64) (Facility, error)
	UpdateFacility(ctx context.Context, f Facility) error
	DeleteFacility(ctx context.Context, id int64) error
	FacilityNameExists(ctx context.Context, roomID, name string) (bool, error)
	ListFacilities(ctx context.Context, roomID string, q PageQuery) ([]Facility, int64, error)
	FacilitiesOfRoom(ctx context.Context, roomID string) ([]Facility, error)
}

type RoomImageRepository interface {
	CreateRoomImage(ctx context.Context, img RoomImage) (int64, error)
	GetRoomImage(ctx context.Context, id int64) (RoomImage, error)
	// LockRoomImage reads the row and holds a row lock until the
	// surrounding transaction ends.
	LockRoomImage(ctx context.Context, id int64) (RoomImage, error)
	UpdateRoomImage(ctx context.Context, img RoomImage) error
	DeleteRoomImage(ctx context.Context, id int64) error
	ListRoomImages(ctx context.Context, roomID string, q PageQuery) ([]RoomImage, int64, error)
	ImagesOfRoom(ctx context.Context, roomID string) ([]RoomImage, error)
	// ImageKeys returns the object keys (directory + file name) of every row.
	ImageKeys(ctx context.Context) (map[string]struct{}, error)
}

// Repository is the relational store. WithinTx runs fn against a
// transaction-scoped Repository; fn's error rolls the transaction back.
// Nested calls reuse the outer transaction.
type Repository interface {
	HotelRepository
	BranchRepository
	AddressRepository
	RoomRepository
	FacilityRepository
	RoomImageRepository
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}

// ObjectStore is the gateway to binary storage.
type ObjectStore interface {
	// Put stores the payload under keyPrefix with a generated file name.
	Put(ctx context.Context, file FilePayload, keyPrefix, bucket string) (Descriptor, error)
	Delete(ctx context.Context, bucket, directory, fileName string) error
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
