package app

import (
	"hotel_management/internal/domain"
)

// Entity to view mappers. Slices are never nil so JSON renders [] not null.

func toHotelView(h domain.Hotel, branches []domain.Branch) domain.HotelView {
	return domain.HotelView{
		HotelID:       h.ID,
		HotelName:     h.Name,
		Description:   h.Description,
		StarRating:    h.StarRating,
		StartingPrice: h.StartingPrice,
		ActiveStatus:  h.Active,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
		Branches:      mapAll(branches, toBranchView),
	}
}

func toBranchView(b domain.Branch) domain.BranchView {
	return domain.BranchView{
		BranchID:   b.ID,
		BranchName: b.Name,
		BranchType: b.Type,
		RoomCount:  b.RoomCount,
		HotelID:    b.HotelID,
	}
}

func toAddressView(a domain.Address) domain.AddressView {
	return domain.AddressView{
		AddressID:   a.ID,
		AddressLine: a.AddressLine,
		City:        a.City,
		Country:     a.Country,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		BranchID:    a.BranchID,
	}
}

func toRoomView(r domain.Room, facilities []domain.Facility, images []domain.RoomImage) domain.RoomView {
	return domain.RoomView{
		RoomID:      r.ID,
		RoomNumber:  r.RoomNumber,
		RoomType:    r.Type,
		BedCount:    r.BedCount,
		Price:       r.Price,
		IsAvailable: r.Available,
		BranchID:    r.BranchID,
		Facilities:  mapAll(facilities, toFacilityView),
		Images:      mapAll(images, toRoomImageView),
	}
}

func toFacilityView(f domain.Facility) domain.FacilityView {
	return domain.FacilityView{ID: f.ID, Name: f.Name, RoomID: f.RoomID}
}

func toRoomImageView(img domain.RoomImage) domain.RoomImageView {
	d := img.Descriptor
	return domain.RoomImageView{
		ID:          img.ID,
		RoomID:      img.RoomID,
		FileName:    d.FileName,
		ResourceURL: d.ResourceURL,
		Directory:   d.Directory,
		Hash:        d.Hash,
	}
}

func mapAll[T, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func toPage[T, V any](in []T, total int64, f func(T) V) domain.Page[V] {
	return domain.Page[V]{DataList: mapAll(in, f), DataCount: total}
}
