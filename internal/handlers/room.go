package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// RoomHandler serves the room catalogue and availability search
type RoomHandler struct {
	rooms    *services.RoomService
	bookings *services.BookingService
	logger   *zap.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *services.RoomService, bookings *services.BookingService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, bookings: bookings, logger: logger}
}

type roomResponse struct {
	*models.Room
	Amenities []string `json:"amenities"`
}

func toRoomResponses(rooms []*models.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomResponse{Room: r, Amenities: r.AmenityList()})
	}
	return out
}

// ListRooms handles GET /api/rooms?type=Deluxe
func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.rooms.ListRooms(c.UserContext(), c.Query("type"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"rooms":   toRoomResponses(rooms),
		"count":   len(rooms),
	})
}

// GetRoom handles GET /api/rooms/:id
func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid room id")
	}
	room, err := h.rooms.GetRoom(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"room":    roomResponse{Room: room, Amenities: room.AmenityList()},
	})
}

// CheckAvailability handles POST /api/rooms/availability
func (h *RoomHandler) CheckAvailability(c *fiber.Ctx) error {
	var req struct {
		CheckIn  string `json:"check_in"`
		CheckOut string `json:"check_out"`
		RoomType string `json:"room_type"`
		RoomID   uint   `json:"room_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	checkIn, err := services.ParseStayDate(req.CheckIn)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	checkOut, err := services.ParseStayDate(req.CheckOut)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if req.RoomID != 0 {
		available, err := h.bookings.CheckAvailability(c.UserContext(), req.RoomID, checkIn, checkOut)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"room_id":   req.RoomID,
			"available": available,
		})
	}

	rooms, err := h.bookings.AvailableRooms(c.UserContext(), checkIn, checkOut, req.RoomType)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"rooms":   toRoomResponses(rooms),
		"nights":  models.NightsBetween(checkIn, checkOut),
	})
}
