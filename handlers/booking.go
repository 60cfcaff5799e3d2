package handlers

import (
	"net/http"

	"voicedesk/services/order"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves confirmed-booking lookups.
type BookingHandler struct {
	store   order.Store
	archive order.Archive
}

func NewBookingHandler(store order.Store, archive order.Archive) *BookingHandler {
	return &BookingHandler{store: store, archive: archive}
}

// GetBooking returns one confirmed booking by ID. The in-memory store is
// checked first; the durable archive covers bookings from earlier runs.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")

	if booking, ok := h.store.Lookup(id); ok {
		c.JSON(http.StatusOK, booking)
		return
	}

	if h.archive != nil {
		booking, err := h.archive.FindByID(c.Request.Context(), id)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to look up booking", err.Error())
			return
		}
		if booking != nil {
			c.JSON(http.StatusOK, booking)
			return
		}
	}

	utils.JSONError(c, http.StatusNotFound, "booking not found", id)
}
