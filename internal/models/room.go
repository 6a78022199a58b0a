package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Room is one unit of the hotel's static inventory.
type Room struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	RoomNumber    string         `json:"room_number" gorm:"size:10;uniqueIndex;not null"`
	RoomType      string         `json:"room_type" gorm:"size:50;not null;index"`
	PricePerNight float64        `json:"price_per_night" gorm:"not null"`
	Capacity      int            `json:"capacity" gorm:"not null"`
	Description   string         `json:"description"`
	Amenities     datatypes.JSON `json:"amenities"`
	ImageURL      string         `json:"image_url" gorm:"size:200"`
	IsAvailable   bool           `json:"is_available" gorm:"default:true;index"`
}

// AmenityList decodes the amenities column. Malformed data yields an empty list.
func (r *Room) AmenityList() []string {
	if len(r.Amenities) == 0 {
		return []string{}
	}
	var amenities []string
	if err := json.Unmarshal(r.Amenities, &amenities); err != nil {
		return []string{}
	}
	return amenities
}

// SetAmenities encodes the given amenities into the JSON column.
func (r *Room) SetAmenities(amenities []string) {
	if amenities == nil {
		amenities = []string{}
	}
	raw, _ := json.Marshal(amenities)
	r.Amenities = datatypes.JSON(raw)
}
