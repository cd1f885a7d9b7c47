package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/realrohanroy/parknesting-sub000/internal/application"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/auth"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/middleware"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/response"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageQuery is the ?page=&limit= pair of the admin list. Zero values mean
// "use the default"; limits above maxPageLimit are capped.
type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (q pageQuery) normalize() (page, limit int) {
	page, limit = q.Page, q.Limit
	if page == 0 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}
	return page, limit
}

// AdminBookingHandler serves the platform-wide booking views. Every route
// requires the admin claim.
type AdminBookingHandler struct {
	service *application.BookingService
}

func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin",
		middleware.AuthMiddleware(jwtManager),
		middleware.RequireRole(auth.RoleAdmin),
	)
	admin.GET("/bookings", h.List)
	admin.GET("/stats/bookings", h.Stats)
}

// List pages through every booking, newest first.
func (h *AdminBookingHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "page and limit must be positive integers")
		return
	}
	page, limit := q.normalize()

	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, bookings, total, page, limit)
}

// Stats counts bookings per status.
func (h *AdminBookingHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
