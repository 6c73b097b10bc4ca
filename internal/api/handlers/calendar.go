package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/calendar"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/validation"
)

// CalendarHandler previews settlement dates without recording anything.
type CalendarHandler struct {
	calendar service.TradingCalendar
}

func NewCalendarHandler(cal service.TradingCalendar) *CalendarHandler {
	return &CalendarHandler{calendar: cal}
}

// ResolveResponse is the confirmation date a trade placed at tradeDate would get.
type ResolveResponse struct {
	TradeDate        string `json:"tradeDate"`
	IsAfterCutoff    bool   `json:"isAfterCutoff"`
	IsTradingDay     bool   `json:"isTradingDay"`
	ConfirmationDate string `json:"confirmationDate"`
	CalendarMode     string `json:"calendarMode,omitempty"`
	// InCalendarRange is false when the trade date lies outside the loaded trading
	// dates and the weekday rule answered instead.
	InCalendarRange bool `json:"inCalendarRange"`
}

// ReloadResponse reports the calendar state after a reload.
type ReloadResponse struct {
	CalendarMode string `json:"calendarMode"`
}

// Resolve handles GET requests for the confirmation date of a hypothetical trade.
//
// Endpoint: GET /api/calendar/resolve?date=YYYY-MM-DD&afterCutoff=true|false
// Response: 200 OK with ResolveResponse
// Error: 400 Bad Request if date or afterCutoff is malformed
func (h *CalendarHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tradeDate, err := validation.ParseDate(q.Get("date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	afterCutoff := false
	if raw := q.Get("afterCutoff"); raw != "" {
		afterCutoff, err = strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid afterCutoff", err.Error())
			return
		}
	}

	confirmation := service.ResolveConfirmationDate(h.calendar, tradeDate, afterCutoff)
	resp := ResolveResponse{
		TradeDate:        tradeDate.Format(validation.DateLayout),
		IsAfterCutoff:    afterCutoff,
		IsTradingDay:     h.calendar.IsTradingDay(tradeDate),
		ConfirmationDate: confirmation.Format(validation.DateLayout),
	}
	if c, ok := h.calendar.(*calendar.Calendar); ok {
		resp.CalendarMode = c.Mode().String()
		resp.InCalendarRange = c.Covers(tradeDate)
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// Reload handles POST requests to re-read the trading calendar from its source,
// for example after new trading dates were imported.
//
// Endpoint: POST /api/calendar/reload
// Response: 200 OK with ReloadResponse
// Error: 501 Not Implemented if the calendar is not reloadable
// Error: 503 Service Unavailable if the source could not be read
func (h *CalendarHandler) Reload(w http.ResponseWriter, r *http.Request) {
	c, ok := h.calendar.(*calendar.Calendar)
	if !ok {
		response.RespondError(w, http.StatusNotImplemented, "calendar cannot be reloaded", "")
		return
	}

	if err := c.Reload(r.Context()); err != nil {
		zap.L().Warn("trading calendar reload failed", zap.Error(err))
		response.RespondError(w, http.StatusServiceUnavailable, "failed to reload trading calendar", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ReloadResponse{CalendarMode: c.Mode().String()})
}
