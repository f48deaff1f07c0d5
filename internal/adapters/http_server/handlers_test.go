package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "hotel_management/internal/adapters/http_server"
	"hotel_management/internal/adapters/objectstore"
	"hotel_management/internal/app"
	"hotel_management/internal/storage/memory"
)

const base = httpserver.APIPrefix

type api struct {
	t    *testing.T
	h    http.Handler
	root string
}

type reply struct {
	Code   int
	Header http.Header
	Body   struct {
		StatusCode int             `json:"statusCode"`
		Message    string          `json:"message"`
		Data       json.RawMessage `json:"data"`
	}
}

func newAPI(t *testing.T, maxUpload int64) *api {
	t.Helper()
	root := t.TempDir()
	store, err := objectstore.NewFilesystemStore(root, "")
	require.NoError(t, err)

	svc := app.New(memory.New(), store, app.Options{Bucket: "media", Logger: zerolog.Nop()})
	srv := httpserver.New(zerolog.Nop(), 0)
	srv.MountHandlers(&httpserver.Handlers{Svc: svc, MaxUploadBytes: maxUpload})
	return &api{t: t, h: srv.Mux(), root: root}
}

func (a *api) do(req *http.Request) reply {
	a.t.Helper()
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	out := reply{Code: rec.Code, Header: rec.Header()}
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out.Body), rec.Body.String())
	}
	return out
}

func (a *api) json(method, path string, body any) reply {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, base+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *api) upload(method, path, roomID, name string, data []byte) reply {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if roomID != "" {
		require.NoError(a.t, mw.WriteField("roomId", roomID))
	}
	if data != nil {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(a.t, err)
		_, err = fw.Write(data)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())
	req := httptest.NewRequest(method, base+path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

func (a *api) createdID(r reply) string {
	a.t.Helper()
	require.Equal(a.t, http.StatusCreated, r.Code, r.Body.Message)
	var d struct {
		ID json.RawMessage `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(r.Body.Data, &d))
	return strings.Trim(string(d.ID), `"`)
}

func (a *api) seedRoom() (hotelID, branchID, roomID string) {
	a.t.Helper()
	hotelID = a.createdID(a.json(http.MethodPost, "/hotels/user/create", map[string]any{
		"hotelName": "Grand", "starRating": 4, "startingPrice": 120.5,
	}))
	branchID = a.createdID(a.json(http.MethodPost, "/branches/user/create", map[string]any{
		"hotelId": hotelID, "branchName": "Main", "branchType": "CITY", "roomCount": 10,
	}))
	roomID = a.createdID(a.json(http.MethodPost, "/rooms/user/create", map[string]any{
		"branchId": branchID, "roomNumber": "101", "roomType": "DELUXE", "bedCount": 2, "price": 99, "isAvailable": true,
	}))
	return
}

func TestHealthz(t *testing.T) {
	a := newAPI(t, 1<<20)
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHotelEndpoints(t *testing.T) {
	a := newAPI(t, 1<<20)
	hotelID, branchID, _ := a.seedRoom()

	r := a.json(http.MethodGet, "/hotels/visitor/find-by-id/"+hotelID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "Hotel found!", r.Body.Message)
	assert.Equal(t, http.StatusOK, r.Body.StatusCode)
	var hv struct {
		HotelName string `json:"hotelName"`
		Branches  []struct {
			BranchID string `json:"branchId"`
		} `json:"branches"`
	}
	require.NoError(t, json.Unmarshal(r.Body.Data, &hv))
	assert.Equal(t, "Grand", hv.HotelName)
	require.Len(t, hv.Branches, 1)
	assert.Equal(t, branchID, hv.Branches[0].BranchID)

	r = a.json(http.MethodPut, "/hotels/admin/update/"+hotelID, map[string]any{"hotelName": "Grander", "starRating": 5})
	assert.Equal(t, http.StatusCreated, r.Code)
	assert.Equal(t, "Hotel Updated!", r.Body.Message)

	r = a.json(http.MethodGet, "/hotels/visitor/find-all?searchText=grand&page=0&size=5", nil)
	require.Equal(t, http.StatusOK, r.Code)
	var pg struct {
		DataList  []json.RawMessage `json:"dataList"`
		DataCount int64             `json:"dataCount"`
	}
	require.NoError(t, json.Unmarshal(r.Body.Data, &pg))
	assert.EqualValues(t, 1, pg.DataCount)
	assert.Len(t, pg.DataList, 1)

	r = a.json(http.MethodDelete, "/hotels/host/delete/"+hotelID, nil)
	assert.Equal(t, http.StatusConflict, r.Code)
	assert.Contains(t, r.Body.Message, "associated branches")

	r = a.json(http.MethodGet, "/hotels/visitor/find-by-id/missing", nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
	assert.Equal(t, "Hotel not found with id: missing", r.Body.Message)
}

func TestFindByID_ETag(t *testing.T) {
	a := newAPI(t, 1<<20)
	hotelID, _, _ := a.seedRoom()

	r := a.json(http.MethodGet, "/hotels/visitor/find-by-id/"+hotelID, nil)
	etag := r.Header.Get("ETag")
	require.True(t, strings.HasPrefix(etag, `W/"`))

	req := httptest.NewRequest(http.MethodGet, base+"/hotels/visitor/find-by-id/"+hotelID, nil)
	req.Header.Set("If-None-Match", etag)
	r = a.do(req)
	assert.Equal(t, http.StatusNotModified, r.Code)
	assert.Equal(t, etag, r.Header.Get("ETag"))
}

func TestRequestValidation(t *testing.T) {
	a := newAPI(t, 1<<20)

	r := a.json(http.MethodPost, "/hotels/user/create", map[string]any{"starRating": "five"})
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Contains(t, r.Body.Message, "hotelName")

	req := httptest.NewRequest(http.MethodPost, base+"/hotels/user/create", strings.NewReader("{not json"))
	r = a.do(req)
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = a.json(http.MethodPost, "/hotels/user/create", map[string]any{"hotelName": "X", "starRating": 9})
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = a.json(http.MethodGet, "/hotels/visitor/find-all?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	r = a.json(http.MethodGet, "/hotels/visitor/find-all?size=0", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	r = a.json(http.MethodGet, "/hotels/visitor/find-all?page=92233720368547759&size=100", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Contains(t, r.Body.Message, "out of range")

	r = a.json(http.MethodGet, "/facilities/visitor/find-by-id/abc", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, "Invalid facility id format: abc", r.Body.Message)

	r = a.json(http.MethodDelete, "/images/host/delete/x1", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, "Invalid image id format: x1", r.Body.Message)

	r = a.json(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
}

func TestBranchAddressRoomFacility(t *testing.T) {
	a := newAPI(t, 1<<20)
	hotelID, branchID, roomID := a.seedRoom()

	r := a.json(http.MethodPost, "/branches/user/create", map[string]any{"hotelId": hotelID, "branchName": "Main"})
	assert.Equal(t, http.StatusConflict, r.Code)

	r = a.json(http.MethodGet, "/branches/visitor/find-all-by-hotel/"+hotelID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "Branch list by hotel!", r.Body.Message)

	addrID := a.createdID(a.json(http.MethodPost, "/addresses/user/create", map[string]any{
		"branchId": branchID, "addressLine": "1 Main St", "city": "Colombo", "country": "LK", "latitude": 6.9, "longitude": 79.8,
	}))
	r = a.json(http.MethodGet, "/addresses/visitor/find-by-branch/"+branchID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "Address found by branch!", r.Body.Message)
	assert.Contains(t, string(r.Body.Data), addrID)

	r = a.json(http.MethodPost, "/addresses/user/create", map[string]any{"branchId": branchID, "addressLine": "2 Side St"})
	assert.Equal(t, http.StatusConflict, r.Code)

	facID := a.createdID(a.json(http.MethodPost, "/facilities/user/create", map[string]any{"roomId": roomID, "name": "WiFi"}))
	r = a.json(http.MethodGet, "/facilities/visitor/find-all?roomId="+roomID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Contains(t, string(r.Body.Data), "WiFi")

	r = a.json(http.MethodDelete, "/rooms/host/delete/"+roomID, nil)
	assert.Equal(t, http.StatusConflict, r.Code)

	r = a.json(http.MethodDelete, "/facilities/host/delete/"+facID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "Facility deleted!", r.Body.Message)

	r = a.json(http.MethodDelete, "/rooms/host/delete/"+roomID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "Room deleted!", r.Body.Message)
}

func TestImageLifecycle(t *testing.T) {
	a := newAPI(t, 1<<20)
	_, branchID, roomID := a.seedRoom()
	otherRoom := a.createdID(a.json(http.MethodPost, "/rooms/user/create", map[string]any{
		"branchId": branchID, "roomNumber": "102",
	}))

	imgID := a.createdID(a.upload(http.MethodPost, "/images/user/create", roomID, "front.png", []byte("png-1")))

	r := a.json(http.MethodGet, "/images/visitor/find-by-id/"+imgID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	var v struct {
		RoomID    string `json:"roomId"`
		FileName  string `json:"fileName"`
		Directory string `json:"directory"`
	}
	require.NoError(t, json.Unmarshal(r.Body.Data, &v))
	assert.Equal(t, roomID, v.RoomID)
	assert.Equal(t, "room/"+roomID+"/images/", v.Directory)
	first := filepath.Join(a.root, "media", filepath.FromSlash(v.Directory), v.FileName)
	_, err := os.Stat(first)
	require.NoError(t, err)

	r = a.upload(http.MethodPut, "/images/admin/update/"+imgID, otherRoom, "back.jpg", []byte("jpg-2"))
	require.Equal(t, http.StatusCreated, r.Code, r.Body.Message)
	assert.Equal(t, "Room Image Updated!", r.Body.Message)
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err), "old object removed")

	r = a.json(http.MethodGet, "/rooms/visitor/find-by-id/"+otherRoom, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Contains(t, string(r.Body.Data), fmt.Sprintf(`"id":%s`, imgID))

	r = a.json(http.MethodDelete, "/images/host/delete/"+imgID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "Room Image deleted!", r.Body.Message)

	r = a.json(http.MethodDelete, "/images/host/delete/"+imgID, nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
}

func TestImageUploadRejections(t *testing.T) {
	small := newAPI(t, 1024)
	_, _, smallRoom := small.seedRoom()
	r := small.upload(http.MethodPost, "/images/user/create", smallRoom, "big.png", bytes.Repeat([]byte("x"), 8192))
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Contains(t, r.Body.Message, "maximum upload size")

	a := newAPI(t, 1<<20)
	_, _, roomID := a.seedRoom()
	r = a.upload(http.MethodPost, "/images/user/create", roomID, "", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, "file is required", r.Body.Message)

	r = a.upload(http.MethodPost, "/images/user/create", "no-such-room", "a.png", []byte("a"))
	assert.Equal(t, http.StatusNotFound, r.Code)

	entries, err := os.ReadDir(a.root)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads never reach the store")
}
