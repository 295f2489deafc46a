package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/events"
)

var errEmptySelection = errors.New("one of selected or toggle is required")

// SelectionRequest is a multi-select update: either the full list or a single toggle.
// An explicit empty list selects all.
type SelectionRequest struct {
	Selected []string `json:"selected"`
	Toggle   string   `json:"toggle"`
}

func (r SelectionRequest) validate() error {
	if r.Selected == nil && r.Toggle == "" {
		return errEmptySelection
	}
	return nil
}

// ShiftsRequest replaces the shift selection. An explicit empty list is allowed.
type ShiftsRequest struct {
	Shifts []string `json:"shifts" binding:"required"`
}

// DateOptionRequest switches the date window
type DateOptionRequest struct {
	Option string `json:"option" binding:"required"`
}

// CustomRangeRequest sets custom bounds; an empty bound is left unset
type CustomRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DrilldownRequest sets the drill-down day; null or empty clears it
type DrilldownRequest struct {
	Date *string `json:"date"`
}

// FilterEvent is one entry of the filter change history
type FilterEvent struct {
	Version   int                  `json:"version"`
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	State     entities.FilterState `json:"state"`
}

// GetFilters returns the current filter snapshot
// GET /api/filters
func (h *Handler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.FilterState())
}

// SetVendors updates the vendor selection
// PUT /api/filters/vendors
func (h *Handler) SetVendors(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err)
		return
	}

	filters := h.dashboard.Filters()
	if req.Toggle != "" {
		c.JSON(http.StatusOK, filters.ToggleVendor(entities.VendorID(req.Toggle)))
		return
	}
	c.JSON(http.StatusOK, filters.SetSelectedVendors(req.Selected))
}

// SetShifts replaces the shift selection
// PUT /api/filters/shifts
func (h *Handler) SetShifts(c *gin.Context) {
	var req ShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	shifts := make([]entities.Shift, 0, len(req.Shifts))
	for _, s := range req.Shifts {
		shift, err := entities.ParseShift(s)
		if err != nil {
			badRequest(c, err)
			return
		}
		shifts = append(shifts, shift)
	}
	c.JSON(http.StatusOK, h.dashboard.Filters().SetSelectedShifts(shifts))
}

// SetDateOption switches the date window
// PUT /api/filters/date-option
func (h *Handler) SetDateOption(c *gin.Context) {
	var req DateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	option, err := entities.ParseDateOption(req.Option)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.Filters().SetDateOption(option))
}

// SetCustomRange sets custom bounds and switches to the custom window
// PUT /api/filters/custom-range
func (h *Handler) SetCustomRange(c *gin.Context) {
	var req CustomRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := entities.ParseDateRange(req.Start, req.End)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.Filters().SetCustomDateRange(r))
}

// SetDrilldown sets or clears the drill-down day
// PUT /api/filters/drilldown
func (h *Handler) SetDrilldown(c *gin.Context) {
	var req DrilldownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Date == nil || *req.Date == "" {
		c.JSON(http.StatusOK, h.dashboard.Filters().SetDrilldownDate(nil))
		return
	}
	date, err := entities.ParseDay(*req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.Filters().SetDrilldownDate(&date))
}

// SetCategories updates the category selection
// PUT /api/filters/categories
func (h *Handler) SetCategories(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err)
		return
	}

	filters := h.dashboard.Filters()
	if req.Toggle != "" {
		c.JSON(http.StatusOK, filters.ToggleCategory(entities.Category(req.Toggle)))
		return
	}
	c.JSON(http.StatusOK, filters.SetSelectedCategories(req.Selected))
}

// ResetFilters restores the default filters
// POST /api/filters/reset
func (h *Handler) ResetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Filters().Reset())
}

// GetFilterHistory lists filter changes starting at version ?from (default 1)
// GET /api/filters/history
func (h *Handler) GetFilterHistory(c *gin.Context) {
	from := 1
	if v := c.Query("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid from %q", v))
			return
		}
		from = n
	}

	stored, err := h.dashboard.Filters().Events().ReadEvents(events.FilterStream, from)
	if err != nil {
		h.writeError(c, err)
		return
	}

	history := make([]FilterEvent, 0, len(stored))
	for _, e := range stored {
		entry := FilterEvent{
			Version:   e.Version(),
			Type:      e.Type(),
			Timestamp: e.Timestamp(),
		}
		if state, ok := events.StateOf(e); ok {
			entry.State = state
		}
		history = append(history, entry)
	}
	c.JSON(http.StatusOK, history)
}
