package domain

// HotelDocument is the unit of persistence: the store reads and writes the
// whole ordered sequence, never individual records.
type HotelDocument []HotelRecord

type HotelRecord struct {
	HotelID         HotelID         `json:"hotel_id"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Images          []string        `json:"images"`
	Description     string          `json:"description"`
	GuestCount      int             `json:"guest_count"`
	BedroomCount    int             `json:"bedroom_count"`
	BathroomCount   int             `json:"bathroom_count"`
	Amenities       []string        `json:"amenities"`
	HostInformation HostInformation `json:"host_information"`
	Address         string          `json:"address"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	Rooms           []RoomRecord    `json:"rooms"`
}

// RoomRecord carries a denormalized copy of the parent slug taken at creation
// time. It is deliberately NOT kept in sync when the hotel is later renamed.
type RoomRecord struct {
	HotelSlug    string `json:"hotel_slug"`
	RoomImage    string `json:"room_image"`
	BedroomCount int    `json:"bedroom_count"`
}

type HostInformation struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}
