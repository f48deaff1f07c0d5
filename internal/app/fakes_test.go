package app_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"hotel_management/internal/app"
	"hotel_management/internal/domain"
	"hotel_management/internal/storage/memory"
)

// ---- object store fake ----

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string]domain.ObjectInfo
	calls     []string
	n         int
	putErr    error
	deleteErr error
	// putDelay widens the window between reading a row and writing its new
	// object so overlapping mutations actually overlap.
	putDelay time.Duration
	now      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]domain.ObjectInfo{}, now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) Put(_ context.Context, file domain.FilePayload, prefix, bucket string) (domain.Descriptor, error) {
	if s.putDelay > 0 {
		time.Sleep(s.putDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "put:"+prefix)
	if s.putErr != nil {
		return domain.Descriptor{}, s.putErr
	}
	s.n++
	name := fmt.Sprintf("obj-%d.png", s.n)
	sum := sha256.Sum256(file.Data)
	s.objects[prefix+name] = domain.ObjectInfo{Directory: prefix, FileName: name, Size: int64(len(file.Data)), LastModified: s.now}
	return domain.Descriptor{
		FileName:    name,
		ResourceURL: "http://store/" + bucket + "/" + prefix + name,
		Directory:   prefix,
		Hash:        hex.EncodeToString(sum[:]),
	}, nil
}

func (s *fakeStore) Delete(_ context.Context, _, directory, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete:"+directory+fileName)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, directory+fileName)
	return nil
}

func (s *fakeStore) List(_ context.Context, _, prefix string) ([]domain.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ObjectInfo
	for k, o := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *fakeStore) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// ---- repository whose transactions run concurrently ----

// looseTxRepo runs fn straight against the wrapped repo. Each call is still
// atomic but two transactions interleave freely, so only the coordinator's
// own locking keeps mutations of one image apart.
type looseTxRepo struct {
	domain.Repository
}

func (r looseTxRepo) WithinTx(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

// ---- repository wrapper that fails image writes ----

type failingRepo struct {
	domain.Repository
	createImageErr error
	updateImageErr error
}

func (f *failingRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	return f.Repository.WithinTx(ctx, func(tx domain.Repository) error {
		return fn(&failingRepo{Repository: tx, createImageErr: f.createImageErr, updateImageErr: f.updateImageErr})
	})
}

func (f *failingRepo) CreateRoomImage(ctx context.Context, img domain.RoomImage) (int64, error) {
	if f.createImageErr != nil {
		return 0, f.createImageErr
	}
	return f.Repository.CreateRoomImage(ctx, img)
}

func (f *failingRepo) UpdateRoomImage(ctx context.Context, img domain.RoomImage) error {
	if f.updateImageErr != nil {
		return f.updateImageErr
	}
	return f.Repository.UpdateRoomImage(ctx, img)
}

// ---- cache fake (JSON round trip, like redis) ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

// ---- fixture ----

type fixture struct {
	repo   *memory.Repo
	store  *fakeStore
	cache  *fakeCache
	svc    *app.Services
	comps  []string
	compMu sync.Mutex
}

func newFixture(t *testing.T, wrap func(domain.Repository) domain.Repository) *fixture {
	t.Helper()
	f := &fixture{repo: memory.New(), store: newFakeStore(), cache: newFakeCache()}
	var repo domain.Repository = f.repo
	if wrap != nil {
		repo = wrap(repo)
	}
	f.svc = app.New(repo, f.store, app.Options{
		Bucket:   "media",
		Cache:    f.cache,
		CacheTTL: time.Minute,
		OnCompensation: func(op string, err error) {
			f.compMu.Lock()
			defer f.compMu.Unlock()
			res := "ok"
			if err != nil {
				res = "error"
			}
			f.comps = append(f.comps, op+":"+res)
		},
		Logger: zerolog.Nop(),
	})
	return f
}

func (f *fixture) compensations() []string {
	f.compMu.Lock()
	defer f.compMu.Unlock()
	return append([]string(nil), f.comps...)
}

// seedRoom creates hotel -> branch -> room and returns the ids.
func (f *fixture) seedRoom(t *testing.T, number string) (hotelID, branchID, roomID string) {
	t.Helper()
	ctx := context.Background()
	var err error
	hotelID, err = f.svc.Hotels.Create(ctx, app.HotelInput{Name: "Grand " + number, StarRating: 4, StartingPrice: 100})
	require.NoError(t, err)
	branchID, err = f.svc.Branches.Create(ctx, app.BranchInput{HotelID: hotelID, Name: "Main", Type: "CITY", RoomCount: 1})
	require.NoError(t, err)
	roomID, err = f.svc.Rooms.Create(ctx, app.RoomInput{BranchID: branchID, RoomNumber: number, Type: "DELUXE", BedCount: 2, Price: 90, IsAvailable: true})
	require.NoError(t, err)
	return
}

func file(name, body string) domain.FilePayload {
	return domain.FilePayload{Name: name, ContentType: "image/png", Data: []byte(body)}
}

func page(p, size int) domain.PageQuery { return domain.PageQuery{Page: p, Size: size} }
