package domain

import "time"

type Room struct {
	ID         string
	BranchID   string
	RoomNumber string
	Type       string
	BedCount   int
	Price      float64
	Available  bool
}

type Facility struct {
	ID     int64
	RoomID string
	Name   string
}

// Descriptor identifies one object in the object store. The fields are
// persisted as opaque byte columns; round-trip equality is all that matters.
type Descriptor struct {
	FileName    string
	ResourceURL string
	Directory   string
	Hash        string
}

// Key is the full object key inside the bucket.
func (d Descriptor) Key() string { return d.Directory + d.FileName }

type RoomImage struct {
	ID         int64
	RoomID     string
	Descriptor Descriptor
}

// FilePayload is an uploaded file as received from the client.
type FilePayload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ObjectInfo is one entry returned when listing a bucket prefix.
type ObjectInfo struct {
	Directory    string
	FileName     string
	Size         int64
	LastModified time.Time
}

func (o ObjectInfo) Key() string { return o.Directory + o.FileName }

// Read models

type RoomView struct {
	RoomID      string          `json:"roomId"`
	RoomNumber  string          `json:"roomNumber"`
	RoomType    string          `json:"roomType"`
	BedCount    int             `json:"bedCount"`
	Price       float64         `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
	BranchID    string          `json:"branchId"`
	Facilities  []FacilityView  `json:"facilities"`
	Images      []RoomImageView `json:"images"`
}

type FacilityView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}

type RoomImageView struct {
	ID          int64  `json:"id"`
	RoomID      string `json:"roomId"`
	FileName    string `json:"fileName"`
	ResourceURL string `json:"resourceUrl"`
	Directory   string `json:"directory"`
	Hash        string `json:"hash"`
}
