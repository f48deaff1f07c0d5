package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hotel_management/internal/domain"
)

// MediaCoordinator keeps room image objects and their metadata rows in step.
// There is no distributed transaction: each write runs in one metadata
// transaction and an object written before a failed commit is removed again
// with a single compensating delete.
type MediaCoordinator struct {
	repo   domain.Repository
	store  domain.ObjectStore
	bucket string
	views  *viewCache
	locks  *keyLock

	log         zerolog.Logger
	compTimeout time.Duration
	onComp      func(op string, err error)
}

func newMediaCoordinator(repo domain.Repository, store domain.ObjectStore, views *viewCache, opt Options) *MediaCoordinator {
	return &MediaCoordinator{
		repo:        repo,
		store:       store,
		bucket:      opt.Bucket,
		views:       views,
		locks:       newKeyLock(),
		log:         opt.Logger.With().Str("component", "media").Logger(),
		compTimeout: opt.CompensationTimeout,
		onComp:      opt.OnCompensation,
	}
}

// ImageDir is the key prefix every image of roomID is stored under.
func ImageDir(roomID string) string { return "room/" + roomID + "/images/" }

func validUpload(file domain.FilePayload) error {
	if len(file.Data) == 0 {
		return domain.Invalid("file is required")
	}
	return nil
}

func (m *MediaCoordinator) Create(ctx context.Context, roomID string, file domain.FilePayload) (int64, error) {
	if roomID == "" {
		return 0, domain.Invalid("roomId is required")
	}
	if err := validUpload(file); err != nil {
		return 0, err
	}

	var (
		d   domain.Descriptor
		put bool
		id  int64
	)
	err := m.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if _, err := tx.GetRoom(ctx, roomID); err != nil {
			return err
		}
		var err error
		d, err = m.store.Put(ctx, file, ImageDir(roomID), m.bucket)
		if err != nil {
			return domain.Internal(err, "Failed to upload room image")
		}
		put = true
		id, err = tx.CreateRoomImage(ctx, domain.RoomImage{RoomID: roomID, Descriptor: d})
		return err
	})
	if err != nil {
		if put {
			m.compensate(ctx, "create", d, 0, roomID)
		}
		return 0, domain.AsInternal(err, "Failed to create room image")
	}
	m.views.invalidate(ctx, roomKey(roomID))
	return id, nil
}

// Update replaces the stored object of an image and, when roomID is set and
// differs, moves the image to that room. The old object is deleted before
// the new one is written.
func (m *MediaCoordinator) Update(ctx context.Context, imageID int64, roomID string, file domain.FilePayload) error {
	if err := validUpload(file); err != nil {
		return err
	}
	unlock := m.locks.Lock(imageID)
	defer unlock()

	var (
		next             domain.Descriptor
		put              bool
		oldRoom, newRoom string
	)
	err := m.repo.WithinTx(ctx, func(tx domain.Repository) error {
		img, err := tx.LockRoomImage(ctx, imageID)
		if err != nil {
			return err
		}
		oldRoom, newRoom = img.RoomID, img.RoomID
		if roomID != "" && roomID != img.RoomID {
			if _, err := tx.GetRoom(ctx, roomID); err != nil {
				return err
			}
			newRoom = roomID
		}

		old := img.Descriptor
		if err := m.store.Delete(ctx, m.bucket, old.Directory, old.FileName); err != nil {
			return domain.Internal(err, "Failed to delete existing image resource")
		}
		next, err = m.store.Put(ctx, file, ImageDir(newRoom), m.bucket)
		if err != nil {
			return domain.Internal(err, "Failed to upload room image")
		}
		put = true

		img.RoomID = newRoom
		img.Descriptor = next
		return tx.UpdateRoomImage(ctx, img)
	})
	if err != nil {
		if put {
			m.compensate(ctx, "update", next, imageID, newRoom)
		}
		return domain.AsInternal(err, "Failed to update room image")
	}
	m.views.invalidate(ctx, roomKey(oldRoom), roomKey(newRoom))
	return nil
}

// Delete removes the object first; the row is only deleted once the object
// is gone.
func (m *MediaCoordinator) Delete(ctx context.Context, imageID int64) error {
	unlock := m.locks.Lock(imageID)
	defer unlock()

	var roomID string
	err := m.repo.WithinTx(ctx, func(tx domain.Repository) error {
		img, err := tx.LockRoomImage(ctx, imageID)
		if err != nil {
			return err
		}
		roomID = img.RoomID
		d := img.Descriptor
		if err := m.store.Delete(ctx, m.bucket, d.Directory, d.FileName); err != nil {
			return domain.Internal(err, "Failed to delete image resource")
		}
		return tx.DeleteRoomImage(ctx, imageID)
	})
	if err != nil {
		return domain.AsInternal(err, "Failed to delete room image")
	}
	m.views.invalidate(ctx, roomKey(roomID))
	return nil
}

func (m *MediaCoordinator) FindByID(ctx context.Context, imageID int64) (domain.RoomImageView, error) {
	img, err := m.repo.GetRoomImage(ctx, imageID)
	if err != nil {
		return domain.RoomImageView{}, domain.AsInternal(err, "Failed to load room image")
	}
	return toRoomImageView(img), nil
}

// FindAll lists images, optionally scoped to roomID ("" = every room).
func (m *MediaCoordinator) FindAll(ctx context.Context, roomID string, q domain.PageQuery) (domain.Page[domain.RoomImageView], error) {
	items, total, err := readPage(q, "room images", func() ([]domain.RoomImage, int64, error) {
		if roomID != "" {
			if _, err := m.repo.GetRoom(ctx, roomID); err != nil {
				return nil, 0, err
			}
		}
		return m.repo.ListRoomImages(ctx, roomID, q)
	})
	if err != nil {
		return domain.Page[domain.RoomImageView]{}, err
	}
	return toPage(items, total, toRoomImageView), nil
}

// compensate deletes an object whose metadata never committed. It runs
// detached from the request so a cancelled client does not skip it, and it is
// attempted once.
func (m *MediaCoordinator) compensate(ctx context.Context, op string, d domain.Descriptor, imageID int64, roomID string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.compTimeout)
	defer cancel()

	err := m.store.Delete(cctx, m.bucket, d.Directory, d.FileName)
	if m.onComp != nil {
		m.onComp(op, err)
	}
	ev := m.log.Warn()
	msg := "compensating delete succeeded"
	if err != nil {
		ev = m.log.Error().Err(err)
		msg = "compensating delete failed; object left orphaned"
	}
	ev.Str("op", op).
		Int64("image_id", imageID).
		Str("room_id", roomID).
		Str("bucket", m.bucket).
		Str("key", d.Key()).
		Msg(msg)
}
