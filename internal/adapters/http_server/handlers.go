package httpserver

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hotel_management/internal/app"
	"hotel_management/internal/domain"
)

const (
	APIPrefix       = "/hotel-management/api/v1"
	defaultPageSize = 10
)

type Handlers struct {
	Svc            *app.Services
	MaxUploadBytes int64
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route(APIPrefix, func(r chi.Router) {
		r.Route("/hotels", func(r chi.Router) {
			r.Post("/user/create", h.createHotel)
			r.Put("/admin/update/{id}", h.updateHotel)
			r.Delete("/host/delete/{id}", h.deleteHotel)
			r.Get("/visitor/find-by-id/{id}", h.findHotel)
			r.Get("/visitor/find-all", h.findAllHotels)
		})
		r.Route("/branches", func(r chi.Router) {
			r.Post("/user/create", h.createBranch)
			r.Put("/admin/update/{id}", h.updateBranch)
			r.Delete("/host/delete/{id}", h.deleteBranch)
			r.Get("/visitor/find-by-id/{id}", h.findBranch)
			r.Get("/visitor/find-all", h.findAllBranches)
			r.Get("/visitor/find-all-by-hotel/{hotelId}", h.findBranchesByHotel)
		})
		r.Route("/addresses", func(r chi.Router) {
			r.Post("/user/create", h.createAddress)
			r.Put("/admin/update/{id}", h.updateAddress)
			r.Delete("/host/delete/{id}", h.deleteAddress)
			r.Get("/visitor/find-by-id/{id}", h.findAddress)
			r.Get("/visitor/find-by-branch/{branchId}", h.findAddressByBranch)
			r.Get("/visitor/find-all", h.findAllAddresses)
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/user/create", h.createRoom)
			r.Put("/admin/update/{id}", h.updateRoom)
			r.Delete("/host/delete/{id}", h.deleteRoom)
			r.Get("/visitor/find-by-id/{id}", h.findRoom)
			r.Get("/visitor/find-all", h.findAllRooms)
		})
		r.Route("/facilities", func(r chi.Router) {
			r.Post("/user/create", h.createFacility)
			r.Put("/admin/update/{id}", h.updateFacility)
			r.Delete("/host/delete/{id}", h.deleteFacility)
			r.Get("/visitor/find-by-id/{id}", h.findFacility)
			r.Get("/visitor/find-all", h.findAllFacilities)
		})
		r.Route("/images", func(r chi.Router) {
			r.Post("/user/create", h.createImage)
			r.Put("/admin/update/{id}", h.updateImage)
			r.Delete("/host/delete/{id}", h.deleteImage)
			r.Get("/visitor/find-by-id/{id}", h.findImage)
			r.Get("/visitor/find-all", h.findAllImages)
		})
	})
}

// ---- request parsing ----

// pageQuery reads page (default 0), size (default 10) and searchText.
// Range checks happen in the app layer.
func pageQuery(r *http.Request) (domain.PageQuery, error) {
	q := domain.PageQuery{Size: defaultPageSize, Search: r.URL.Query().Get("searchText")}
	if s := r.URL.Query().Get("page"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			return q, domain.Invalid("page must be an integer")
		}
		q.Page = p
	}
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, domain.Invalid("size must be an integer")
		}
		q.Size = n
	}
	return q, nil
}

func int64Param(r *http.Request, name, what string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Invalid("Invalid %s id format: %s", what, raw)
	}
	return id, nil
}

func created(id any) map[string]any { return map[string]any{"id": id} }

// readUpload parses a multipart form with a roomId field and a file part.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) (string, domain.FilePayload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return "", domain.FilePayload{}, domain.Invalid("File exceeds the maximum upload size of %d bytes", h.MaxUploadBytes)
		}
		return "", domain.FilePayload{}, domain.Invalid("Expected a multipart/form-data body")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	roomID := strings.TrimSpace(r.FormValue("roomId"))
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return "", domain.FilePayload{}, domain.Invalid("file is required")
	}
	defer f.Close()
	payload, err := readPart(f, hdr)
	if err != nil {
		return "", domain.FilePayload{}, err
	}
	return roomID, payload, nil
}

func readPart(f multipart.File, hdr *multipart.FileHeader) (domain.FilePayload, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.FilePayload{}, domain.Invalid("Failed to read uploaded file")
	}
	ct := hdr.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(hdr.Filename))); byExt != "" {
			ct = byExt
		}
	}
	return domain.FilePayload{Name: hdr.Filename, ContentType: ct, Data: data}, nil
}

// ---- hotels ----

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if err := decodeBody(r.Body, hotelSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Svc.Hotels.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Hotel Saved!", created(id))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if err := decodeBody(r.Body, hotelSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Hotels.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Hotel Updated!", nil)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Hotels.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Hotel deleted!", nil)
}

func (h *Handlers) findHotel(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Hotels.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Hotel found!", v)
}

func (h *Handlers) findAllHotels(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Hotels.FindAll(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Hotel list!", p)
}

// ---- branches ----

func (h *Handlers) createBranch(w http.ResponseWriter, r *http.Request) {
	var in app.BranchInput
	if err := decodeBody(r.Body, branchSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Svc.Branches.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Branch Saved!", created(id))
}

func (h *Handlers) updateBranch(w http.ResponseWriter, r *http.Request) {
	var in app.BranchInput
	if err := decodeBody(r.Body, branchSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Branches.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Branch Updated!", nil)
}

func (h *Handlers) deleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Branches.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Branch deleted!", nil)
}

func (h *Handlers) findBranch(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Branches.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Branch found!", v)
}

func (h *Handlers) findAllBranches(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Branches.FindAll(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Branch list!", p)
}

func (h *Handlers) findBranchesByHotel(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Branches.FindAllByHotel(r.Context(), chi.URLParam(r, "hotelId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Branch list by hotel!", p)
}

// ---- addresses ----

func (h *Handlers) createAddress(w http.ResponseWriter, r *http.Request) {
	var in app.AddressInput
	if err := decodeBody(r.Body, addressSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Svc.Addresses.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Address Saved!", created(id))
}

func (h *Handlers) updateAddress(w http.ResponseWriter, r *http.Request) {
	var in app.AddressInput
	if err := decodeBody(r.Body, addressSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Addresses.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Address Updated!", nil)
}

func (h *Handlers) deleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Addresses.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Address deleted!", nil)
}

func (h *Handlers) findAddress(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Addresses.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Address found!", v)
}

func (h *Handlers) findAddressByBranch(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Addresses.FindByBranch(r.Context(), chi.URLParam(r, "branchId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Address found by branch!", v)
}

func (h *Handlers) findAllAddresses(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Addresses.FindAll(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Address list!", p)
}

// ---- rooms ----

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var in app.RoomInput
	if err := decodeBody(r.Body, roomSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Svc.Rooms.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Room Saved!", created(id))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	var in app.RoomInput
	if err := decodeBody(r.Body, roomSchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Rooms.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Room Updated!", nil)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Rooms.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Room deleted!", nil)
}

func (h *Handlers) findRoom(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Rooms.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Room found!", v)
}

func (h *Handlers) findAllRooms(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Rooms.FindAll(r.Context(), r.URL.Query().Get("branchId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Room list!", p)
}

// ---- facilities ----

func (h *Handlers) createFacility(w http.ResponseWriter, r *http.Request) {
	var in app.FacilityInput
	if err := decodeBody(r.Body, facilitySchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Svc.Facilities.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Facility Saved!", created(id))
}

func (h *Handlers) updateFacility(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id", "facility")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.FacilityInput
	if err := decodeBody(r.Body, facilitySchema, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Facilities.Update(r.Context(), id, in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Facility Updated!", nil)
}

func (h *Handlers) deleteFacility(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id", "facility")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Facilities.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Facility deleted!", nil)
}

func (h *Handlers) findFacility(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id", "facility")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Svc.Facilities.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Facility found!", v)
}

func (h *Handlers) findAllFacilities(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Facilities.FindAll(r.Context(), r.URL.Query().Get("roomId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Facility list!", p)
}

// ---- room images ----

func (h *Handlers) createImage(w http.ResponseWriter, r *http.Request) {
	roomID, file, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Svc.Images.Create(r.Context(), roomID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Room Image Saved!", created(id))
}

func (h *Handlers) updateImage(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id", "image")
	if err != nil {
		writeError(w, r, err)
		return
	}
	roomID, file, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Images.Update(r.Context(), id, roomID, file); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Room Image Updated!", nil)
}

func (h *Handlers) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id", "image")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Images.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Room Image deleted!", nil)
}

func (h *Handlers) findImage(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id", "image")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Svc.Images.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, "Room Image found!", v)
}

func (h *Handlers) findAllImages(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.Images.FindAll(r.Context(), r.URL.Query().Get("roomId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Room Image list!", p)
}
