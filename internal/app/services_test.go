package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_management/internal/app"
	"hotel_management/internal/domain"
)

func TestHotel_CreateFindUpdateDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.svc.Hotels.Create(ctx, app.HotelInput{Name: "Grand", Description: "sea view", StarRating: 5, StartingPrice: 150})
	require.NoError(t, err)

	h, err := f.svc.Hotels.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Grand", h.HotelName)
	assert.True(t, h.ActiveStatus)
	assert.Empty(t, h.Branches)
	assert.False(t, h.CreatedAt.IsZero())

	require.NoError(t, f.svc.Hotels.Update(ctx, id, app.HotelInput{Name: "Grander", StarRating: 4, StartingPrice: 99}))
	h, err = f.svc.Hotels.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Grander", h.HotelName, "update must invalidate the cached view")

	require.NoError(t, f.svc.Hotels.Delete(ctx, id))
	_, err = f.svc.Hotels.FindByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHotel_DeleteWithBranchesConflicts(t *testing.T) {
	f := newFixture(t, nil)
	hotelID, _, _ := f.seedRoom(t, "101")

	err := f.svc.Hotels.Delete(context.Background(), hotelID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestHotel_Validation(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Hotels.Create(context.Background(), app.HotelInput{Name: " ", StarRating: 3})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.svc.Hotels.Create(context.Background(), app.HotelInput{Name: "x", StarRating: 9})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestHotel_FindAllSearchAndPaging(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for _, n := range []string{"Alpha Inn", "Beta Resort", "alpha Lodge"} {
		_, err := f.svc.Hotels.Create(ctx, app.HotelInput{Name: n, StarRating: 3})
		require.NoError(t, err)
	}

	p, err := f.svc.Hotels.FindAll(ctx, domain.PageQuery{Page: 0, Size: 10, Search: "ALPHA"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.DataCount)
	assert.Len(t, p.DataList, 2)

	p, err = f.svc.Hotels.FindAll(ctx, page(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, p.DataCount)
	assert.Len(t, p.DataList, 1)

	_, err = f.svc.Hotels.FindAll(ctx, page(0, 0))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.svc.Hotels.FindAll(ctx, page(-1, 10))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.svc.Hotels.FindAll(ctx, page(0, domain.MaxPageSize+1))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBranch_Rules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	hotelID, branchID, roomID := f.seedRoom(t, "101")

	_, err := f.svc.Branches.Create(ctx, app.BranchInput{HotelID: "missing", Name: "X"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Branches.Create(ctx, app.BranchInput{HotelID: hotelID, Name: "Main"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Branch with name 'Main' already exists for this hotel", domain.Message(err))

	err = f.svc.Branches.Delete(ctx, branchID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, domain.Message(err), "It has associated rooms.")

	require.NoError(t, f.svc.Rooms.Delete(ctx, roomID))
	_, err = f.svc.Addresses.Create(ctx, app.AddressInput{BranchID: branchID, AddressLine: "1 Main St", City: "Kandy", Country: "LK"})
	require.NoError(t, err)
	err = f.svc.Branches.Delete(ctx, branchID)
	require.ErrorIs(t, err, domain.ErrConflict, "an address also blocks delete")

	p, err := f.svc.Branches.FindAllByHotel(ctx, hotelID, page(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.DataCount)

	_, err = f.svc.Branches.FindAllByHotel(ctx, "missing", page(0, 10))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBranch_MoveInvalidatesBothHotelViews(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	h1, branchID, _ := f.seedRoom(t, "101")
	h2, err := f.svc.Hotels.Create(ctx, app.HotelInput{Name: "Other", StarRating: 3})
	require.NoError(t, err)

	_, err = f.svc.Hotels.FindByID(ctx, h1)
	require.NoError(t, err)
	_, err = f.svc.Hotels.FindByID(ctx, h2)
	require.NoError(t, err)
	require.True(t, f.cache.has("hotel:"+h1))

	require.NoError(t, f.svc.Branches.Update(ctx, branchID, app.BranchInput{HotelID: h2, Name: "Main", Type: "CITY"}))
	assert.False(t, f.cache.has("hotel:"+h1))
	assert.False(t, f.cache.has("hotel:"+h2))

	v2, err := f.svc.Hotels.FindByID(ctx, h2)
	require.NoError(t, err)
	require.Len(t, v2.Branches, 1)
	assert.Equal(t, branchID, v2.Branches[0].BranchID)

	err = f.svc.Branches.Update(ctx, branchID, app.BranchInput{HotelID: "missing", Name: "Main"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddress_OnePerBranch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	hotelID, branchID, _ := f.seedRoom(t, "101")
	other, err := f.svc.Branches.Create(ctx, app.BranchInput{HotelID: hotelID, Name: "Beach"})
	require.NoError(t, err)

	a1, err := f.svc.Addresses.Create(ctx, app.AddressInput{BranchID: branchID, AddressLine: "1 Main St", City: "Kandy", Country: "LK"})
	require.NoError(t, err)
	_, err = f.svc.Addresses.Create(ctx, app.AddressInput{BranchID: branchID, AddressLine: "2 Main St"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Address already exists for branch id: "+branchID, domain.Message(err))

	_, err = f.svc.Addresses.Create(ctx, app.AddressInput{BranchID: other, AddressLine: "Beach Rd", City: "Galle", Country: "LK"})
	require.NoError(t, err)
	err = f.svc.Addresses.Update(ctx, a1, app.AddressInput{BranchID: other, AddressLine: "moved"})
	require.ErrorIs(t, err, domain.ErrConflict)

	v, err := f.svc.Addresses.FindByBranch(ctx, branchID)
	require.NoError(t, err)
	assert.Equal(t, a1, v.AddressID)

	p, err := f.svc.Addresses.FindAll(ctx, domain.PageQuery{Size: 10, Search: "galle"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.DataCount)

	require.NoError(t, f.svc.Addresses.Delete(ctx, a1))
	err = f.svc.Addresses.Delete(ctx, a1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Addresses.FindByBranch(ctx, branchID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Addresses.Create(ctx, app.AddressInput{BranchID: branchID, AddressLine: "x", Latitude: 91})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRoom_RulesAndView(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, branchID, roomID := f.seedRoom(t, "101")

	_, err := f.svc.Rooms.Create(ctx, app.RoomInput{BranchID: branchID, RoomNumber: "101"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Room number '101' already exists in this branch", domain.Message(err))

	v, err := f.svc.Rooms.FindByID(ctx, roomID)
	require.NoError(t, err)
	assert.Empty(t, v.Facilities)
	require.True(t, f.cache.has("room:"+roomID))

	fid, err := f.svc.Facilities.Create(ctx, app.FacilityInput{RoomID: roomID, Name: "WiFi"})
	require.NoError(t, err)
	assert.False(t, f.cache.has("room:"+roomID), "facility write invalidates room view")

	_, err = f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)

	v, err = f.svc.Rooms.FindByID(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, v.Facilities, 1)
	assert.Equal(t, fid, v.Facilities[0].ID)
	require.Len(t, v.Images, 1)

	err = f.svc.Rooms.Delete(ctx, roomID)
	require.ErrorIs(t, err, domain.ErrConflict)

	p, err := f.svc.Rooms.FindAll(ctx, branchID, domain.PageQuery{Size: 10, Search: "deluxe"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.DataCount)

	_, err = f.svc.Rooms.FindAll(ctx, "missing", page(0, 10))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFacility_Rules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, _, roomID := f.seedRoom(t, "101")

	_, err := f.svc.Facilities.Create(ctx, app.FacilityInput{RoomID: "missing", Name: "WiFi"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	id, err := f.svc.Facilities.Create(ctx, app.FacilityInput{RoomID: roomID, Name: "WiFi"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
	_, err = f.svc.Facilities.Create(ctx, app.FacilityInput{RoomID: roomID, Name: "WiFi"})
	require.ErrorIs(t, err, domain.ErrConflict)

	id2, err := f.svc.Facilities.Create(ctx, app.FacilityInput{RoomID: roomID, Name: "TV"})
	require.NoError(t, err)
	err = f.svc.Facilities.Update(ctx, id2, app.FacilityInput{Name: "WiFi"})
	require.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, f.svc.Facilities.Update(ctx, id2, app.FacilityInput{Name: "Smart TV"}))
	v, err := f.svc.Facilities.FindByID(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, "Smart TV", v.Name)

	p, err := f.svc.Facilities.FindAll(ctx, roomID, domain.PageQuery{Size: 10, Search: "tv"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.DataCount)

	require.NoError(t, f.svc.Facilities.Delete(ctx, id))
	err = f.svc.Facilities.Delete(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
