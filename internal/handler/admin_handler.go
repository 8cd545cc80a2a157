package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/okellodaniel/customerbase/internal/service"
)

// AdminHandler handles the development/administration endpoints that bulk
// populate or clear the customers table
type AdminHandler struct {
	customerService service.CustomerService
	defaultCount    int
	logger          *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(customerService service.CustomerService, defaultCount int, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		customerService: customerService,
		defaultCount:    defaultCount,
		logger:          logger,
	}
}

// Populate handles POST /api/admin/populate
func (h *AdminHandler) Populate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	count := h.defaultCount
	if raw := query.Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "count must be a positive integer")
			return
		}
		count = parsed
	}

	force := query.Get("force") == "true"

	result, err := h.customerService.Populate(r.Context(), count, force)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// Clear handles POST /api/admin/clear
func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.customerService.Clear(r.Context()); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, map[string]string{"message": "customers table cleared"})
}
