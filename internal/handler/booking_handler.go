package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/realrohanroy/parknesting-sub000/internal/application"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/auth"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/middleware"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
	queries *application.BookingQueryService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, queries *application.BookingQueryService) *BookingHandler {
	return &BookingHandler{service: service, queries: queries}
}

// RegisterRoutes registers all booking routes on the given router group.
// Availability is open; everything else needs a bearer token.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.POST("/api/v1/availability", h.CheckAvailability)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/status", h.UpdateStatus)
		bookings.GET("/mine", h.ListMine)
		bookings.GET("/hosting", h.ListHosting)
		bookings.GET("/:id", h.GetBooking)
	}
}

// CheckAvailability handles POST /api/v1/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req application.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Fields(c, http.StatusOK, gin.H{"available": result.Available})
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Fields(c, http.StatusCreated, gin.H{"booking_id": result.ID})
}

// UpdateStatus handles PATCH /api/v1/bookings/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.service.TransitionBooking(c.Request.Context(), userID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Fields(c, http.StatusOK, nil)
}

// ListMine handles GET /api/v1/bookings/mine.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	views, err := h.queries.ListForRenter(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Fields(c, http.StatusOK, gin.H{"bookings": views})
}

// ListHosting handles GET /api/v1/bookings/hosting.
func (h *BookingHandler) ListHosting(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	views, err := h.queries.ListForHost(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Fields(c, http.StatusOK, gin.H{"bookings": views})
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	role, _ := middleware.GetUserRole(c)
	result, err := h.service.GetBooking(c.Request.Context(), userID, role == auth.RoleAdmin, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
