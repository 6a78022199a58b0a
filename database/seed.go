package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

type seedRoom struct {
	number      string
	roomType    string
	price       float64
	capacity    int
	description string
	amenities   []string
	image       string
}

var defaultRooms = []seedRoom{
	{"101", "Deluxe", 3500, 2, "Luxurious deluxe room with city view", []string{"WiFi", "AC", "TV", "Mini Bar"}, "/static/images/deluxe-room.svg"},
	{"102", "Deluxe", 3500, 2, "Luxurious deluxe room with garden view", []string{"WiFi", "AC", "TV", "Mini Bar"}, "/static/images/deluxe-room.svg"},
	{"201", "Suite", 6500, 4, "Spacious suite with separate living area", []string{"WiFi", "AC", "TV", "Mini Bar", "Jacuzzi", "Room Service"}, "/static/images/suite-room.svg"},
	{"301", "Standard", 2000, 2, "Comfortable standard room", []string{"WiFi", "AC", "TV"}, "/static/images/standard-room.svg"},
	{"302", "Standard", 2000, 3, "Comfortable standard room with extra bed", []string{"WiFi", "AC", "TV"}, "/static/images/standard-room.svg"},
}

// SeedRooms inserts the default room catalogue when the rooms table is empty.
// It returns the number of rooms created.
func SeedRooms(db *gorm.DB, logger *zap.Logger) (int, error) {
	var count int64
	if err := db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("rooms already present, skipping seed", zap.Int64("rooms", count))
		return 0, nil
	}

	rooms := make([]models.Room, 0, len(defaultRooms))
	for _, r := range defaultRooms {
		room := models.Room{
			RoomNumber:    r.number,
			RoomType:      r.roomType,
			PricePerNight: r.price,
			Capacity:      r.capacity,
			Description:   r.description,
			ImageURL:      r.image,
			IsAvailable:   true,
		}
		room.SetAmenities(r.amenities)
		rooms = append(rooms, room)
	}
	if err := db.Create(&rooms).Error; err != nil {
		return 0, err
	}

	logger.Info("✅ sample rooms added", zap.Int("rooms", len(rooms)))
	return len(rooms), nil
}
