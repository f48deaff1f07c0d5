package domain

import "time"

type Hotel struct {
	ID            string
	Name          string
	Description   string // stored as MEDIUMTEXT
	StarRating    int
	StartingPrice float64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Branch struct {
	ID        string
	HotelID   string
	Name      string
	Type      string
	RoomCount int
}

// Address is 1:1 with its Branch.
type Address struct {
	ID          string
	BranchID    string
	AddressLine string
	City        string
	Country     string
	Latitude    float64
	Longitude   float64
}

// Read models

type HotelView struct {
	HotelID       string       `json:"hotelId"`
	HotelName     string       `json:"hotelName"`
	Description   string       `json:"description"`
	StarRating    int          `json:"starRating"`
	StartingPrice float64      `json:"startingPrice"`
	ActiveStatus  bool         `json:"activeStatus"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Branches      []BranchView `json:"branches"`
}

type BranchView struct {
	BranchID   string `json:"branchId"`
	BranchName string `json:"branchName"`
	BranchType string `json:"branchType"`
	RoomCount  int    `json:"roomCount"`
	HotelID    string `json:"hotelId"`
}

type AddressView struct {
	AddressID   string  `json:"addressId"`
	AddressLine string  `json:"addressLine"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	BranchID    string  `json:"branchId"`
}
