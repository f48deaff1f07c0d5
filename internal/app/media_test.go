package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_management/internal/app"
	"hotel_management/internal/domain"
)

func TestMedia_CreateThenFindReturnsStoredDescriptor(t *testing.T) {
	f := newFixture(t, nil)
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	v, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, roomID, v.RoomID)
	assert.Equal(t, app.ImageDir(roomID), v.Directory)
	assert.Equal(t, "obj-1.png", v.FileName)
	assert.Equal(t, "http://store/media/"+app.ImageDir(roomID)+"obj-1.png", v.ResourceURL)
	assert.True(t, f.store.has(v.Directory+v.FileName))
}

func TestMedia_CreateOnMissingRoom_NoGatewayWrite(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Images.Create(context.Background(), "nope", file("a.png", "AAA"))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.store.count("put:"))
}

func TestMedia_CreatePutFails_NoRowNoCompensation(t *testing.T) {
	f := newFixture(t, nil)
	_, _, roomID := f.seedRoom(t, "101")
	f.store.putErr = errors.New("s3 down")

	_, err := f.svc.Images.Create(context.Background(), roomID, file("a.png", "AAA"))
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "Failed to upload room image", domain.Message(err))
	assert.Empty(t, f.compensations())

	p, err := f.svc.Images.FindAll(context.Background(), roomID, page(0, 10))
	require.NoError(t, err)
	assert.Zero(t, p.DataCount)
}

func TestMedia_CreatePersistFails_CompensatesObject(t *testing.T) {
	f := newFixture(t, func(r domain.Repository) domain.Repository {
		return &failingRepo{Repository: r, createImageErr: errors.New("insert failed")}
	})
	_, _, roomID := f.seedRoom(t, "101")

	_, err := f.svc.Images.Create(context.Background(), roomID, file("a.png", "AAA"))
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "Failed to create room image", domain.Message(err))

	assert.False(t, f.store.has(app.ImageDir(roomID)+"obj-1.png"), "uploaded object must be removed")
	assert.Equal(t, []string{"create:ok"}, f.compensations())
}

func TestMedia_CreateCompensationFailure_IsReportedNotReturned(t *testing.T) {
	insertErr := errors.New("insert failed")
	f := newFixture(t, func(r domain.Repository) domain.Repository {
		return &failingRepo{Repository: r, createImageErr: insertErr}
	})
	_, _, roomID := f.seedRoom(t, "101")
	f.store.deleteErr = errors.New("delete failed")

	_, err := f.svc.Images.Create(context.Background(), roomID, file("a.png", "AAA"))
	require.ErrorIs(t, err, insertErr)
	assert.Equal(t, []string{"create:error"}, f.compensations())
	assert.Equal(t, 1, f.store.count("delete:"), "compensation is attempted once")
}

func TestMedia_UpdateOldDeleteFails_LeavesEverythingIntact(t *testing.T) {
	f := newFixture(t, nil)
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)
	before, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)

	f.store.deleteErr = errors.New("denied")
	err = f.svc.Images.Update(ctx, id, "", file("b.png", "BBB"))
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "Failed to delete existing image resource", domain.Message(err))

	after, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, f.store.has(before.Directory+before.FileName))
	assert.Equal(t, 1, f.store.count("put:"), "no new object written")
}

func TestMedia_UpdatePersistFails_CompensatesNewObject(t *testing.T) {
	fr := &failingRepo{}
	f := newFixture(t, func(r domain.Repository) domain.Repository {
		fr.Repository = r
		return fr
	})
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)

	fr.updateImageErr = errors.New("update failed")
	err = f.svc.Images.Update(ctx, id, "", file("b.png", "BBB"))
	require.ErrorIs(t, err, domain.ErrInternal)

	assert.False(t, f.store.has(app.ImageDir(roomID)+"obj-2.png"))
	assert.Equal(t, []string{"update:ok"}, f.compensations())
}

func TestMedia_UpdateMovesToOtherRoom(t *testing.T) {
	f := newFixture(t, nil)
	_, _, r1 := f.seedRoom(t, "101")
	_, _, r2 := f.seedRoom(t, "102")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, r1, file("a.png", "AAA"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Images.Update(ctx, id, r2, file("b.png", "BBB")))
	v, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, r2, v.RoomID)
	assert.Equal(t, app.ImageDir(r2), v.Directory)

	err = f.svc.Images.Update(ctx, id, "missing-room", file("c.png", "CCC"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMedia_DeleteObjectFailure_KeepsRow(t *testing.T) {
	f := newFixture(t, nil)
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)

	f.store.deleteErr = errors.New("denied")
	err = f.svc.Images.Delete(ctx, id)
	require.ErrorIs(t, err, domain.ErrInternal)

	_, err = f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err, "row must survive a failed object delete")
}

func TestMedia_DeleteTwice(t *testing.T) {
	f := newFixture(t, nil)
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Images.Delete(ctx, id))

	deletes := f.store.count("delete:")
	err = f.svc.Images.Delete(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Room image not found.", domain.Message(err))
	assert.Equal(t, deletes, f.store.count("delete:"), "second delete has no side effects")
}

func TestMedia_FullLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	_, _, r1 := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, r1, file("F", "first"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
	d, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.svc.Images.Update(ctx, id, "", file("F2", "second")))
	d2, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, d.FileName, d2.FileName)
	assert.False(t, f.store.has(d.Directory+d.FileName), "D is gone")
	assert.True(t, f.store.has(d2.Directory+d2.FileName), "D2 is present")

	require.NoError(t, f.svc.Images.Delete(ctx, id))
	_, err = f.svc.Images.FindByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, f.store.has(d2.Directory+d2.FileName), "D2 is gone")
}

func TestMedia_ConcurrentUpdatesLeaveOneObject(t *testing.T) {
	f := newFixture(t, func(r domain.Repository) domain.Repository { return looseTxRepo{r} })
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)
	f.store.putDelay = 5 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.svc.Images.Update(ctx, id, "", file("x.png", "XXX")))
		}()
	}
	wg.Wait()

	objs, err := f.store.List(ctx, "media", app.ImageDir(roomID))
	require.NoError(t, err)
	require.Len(t, objs, 1, "each update must see the object written by the previous one")

	v, err := f.svc.Images.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, objs[0].FileName, v.FileName)
}

func TestMedia_ConcurrentUpdateAndDeleteLeaveNothing(t *testing.T) {
	f := newFixture(t, func(r domain.Repository) domain.Repository { return looseTxRepo{r} })
	_, _, roomID := f.seedRoom(t, "101")
	ctx := context.Background()

	id, err := f.svc.Images.Create(ctx, roomID, file("a.png", "AAA"))
	require.NoError(t, err)
	f.store.putDelay = 5 * time.Millisecond

	var (
		wg        sync.WaitGroup
		updateErr error
		deleteErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		updateErr = f.svc.Images.Update(ctx, id, "", file("x.png", "XXX"))
	}()
	go func() {
		defer wg.Done()
		deleteErr = f.svc.Images.Delete(ctx, id)
	}()
	wg.Wait()

	require.NoError(t, deleteErr)
	if updateErr != nil {
		require.ErrorIs(t, updateErr, domain.ErrNotFound, "update ran after the delete")
	}
	objs, err := f.store.List(ctx, "media", app.ImageDir(roomID))
	require.NoError(t, err)
	assert.Empty(t, objs, "no object survives its deleted row")
	_, err = f.svc.Images.FindByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMedia_FindAllScopedToMissingRoom(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Images.FindAll(context.Background(), "nope", page(0, 10))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMedia_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Images.Create(context.Background(), "", file("a.png", "AAA"))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.svc.Images.Create(context.Background(), "r", domain.FilePayload{Name: "empty"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
