package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/middleware"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// BookingHandler handles booking-related requests
type BookingHandler struct {
	bookings *services.BookingService
	logger   *zap.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// CreateBooking handles creating a new booking
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req struct {
		RoomID          uint   `json:"room_id"`
		CheckIn         string `json:"check_in"`
		CheckOut        string `json:"check_out"`
		Guests          int    `json:"guests"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RoomID == 0 {
		return badRequest(c, "Room ID is required")
	}

	checkIn, err := services.ParseStayDate(req.CheckIn)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	checkOut, err := services.ParseStayDate(req.CheckOut)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	userID, _ := middleware.UserID(c)
	booking, err := h.bookings.CreateBooking(c.UserContext(), userID, services.CreateBookingInput{
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":           true,
		"message":           "Booking created successfully",
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"total_price":       booking.TotalPrice,
		"booking":           booking,
	})
}

// ListBookings returns the guest's bookings, newest first
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	bookings, err := h.bookings.ListUserBookings(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetBooking retrieves booking by ID
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid booking id")
	}
	userID, _ := middleware.UserID(c)
	booking, err := h.bookings.GetUserBooking(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// CancelBooking handles POST /api/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid booking id")
	}
	userID, _ := middleware.UserID(c)
	booking, err := h.bookings.CancelBooking(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking cancelled",
		"booking": booking,
	})
}
