package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/station"
)

// CatalogAdmin exposes the write side of the station catalog.
type CatalogAdmin interface {
	UpdatePrice(ctx context.Context, opisID int64, price float64) error
	InvalidateCache()
}

// DistanceCacheAdmin drops memoized distances.
type DistanceCacheAdmin interface {
	Invalidate()
}

// AdminHandler handles the JWT-protected admin surface.
type AdminHandler struct {
	catalog       CatalogAdmin
	distanceCache DistanceCacheAdmin
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(catalog CatalogAdmin, distanceCache DistanceCacheAdmin) *AdminHandler {
	return &AdminHandler{
		catalog:       catalog,
		distanceCache: distanceCache,
	}
}

// InvalidateCatalog handles POST /v1/admin/catalog/invalidate - drop the
// cached station snapshot.
func (h *AdminHandler) InvalidateCatalog(w http.ResponseWriter, r *http.Request) {
	h.catalog.InvalidateCache()
	response.NoContent(w, r)
}

// InvalidateDistanceCache handles POST /v1/admin/cache/invalidate - drop all
// memoized distances.
func (h *AdminHandler) InvalidateDistanceCache(w http.ResponseWriter, r *http.Request) {
	h.distanceCache.Invalidate()
	response.NoContent(w, r)
}

// UpdateStationPrice handles PUT /v1/admin/stations/{opisID}/price.
func (h *AdminHandler) UpdateStationPrice(w http.ResponseWriter, r *http.Request) {
	opisID, err := strconv.ParseInt(chi.URLParam(r, "opisID"), 10, 64)
	if err != nil {
		response.BadRequest(w, r, "opisID must be an integer", nil)
		return
	}

	var input models.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.RetailPrice <= 0 {
		response.BadRequest(w, r, "retail_price must be greater than 0", []models.FieldError{
			{Field: "retail_price", Message: "must be greater than 0", Code: "OUT_OF_RANGE"},
		})
		return
	}

	if err := h.catalog.UpdatePrice(r.Context(), opisID, input.RetailPrice); err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found")
			return
		}
		response.InternalError(w, r, "failed to update price")
		return
	}

	response.NoContent(w, r)
}
