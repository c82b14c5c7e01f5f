package maps

import (
	"net/http"
	"strings"

	"county_lookup/platform/apperr"
	"county_lookup/platform/httpkit"
	"county_lookup/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingLatLng  = "Missing lat or lng parameter"
	msgInvalidLatLng  = "Invalid lat or lng parameter"
	msgMissingPlaceID = "Missing place_id parameter"
	msgMissingInput   = "Missing input parameter"
)

// Handler exposes the credential-shielding proxy endpoints.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Geocode handles GET /api/geocode?lat=...&lng=...
func (h *Handler) Geocode(c *gin.Context) {
	var req GeocodeRequest
	if err := c.ShouldBindQuery(&req); err != nil || blank(req.Lat) || blank(req.Lng) {
		httpkit.HandleError(c, apperr.BadRequest(msgMissingLatLng))
		return
	}
	req.Lat, req.Lng = strings.TrimSpace(req.Lat), strings.TrimSpace(req.Lng)
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidLatLng))
		return
	}

	body, err := h.svc.Geocode(c.Request.Context(), req.Lat, req.Lng)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.RawJSON(c, http.StatusOK, body)
}

// PlaceDetails handles GET /api/place-details?place_id=...
func (h *Handler) PlaceDetails(c *gin.Context) {
	var req PlaceDetailsRequest
	if err := c.ShouldBindQuery(&req); err != nil || blank(req.PlaceID) {
		httpkit.HandleError(c, apperr.BadRequest(msgMissingPlaceID))
		return
	}

	body, err := h.svc.PlaceDetails(c.Request.Context(), strings.TrimSpace(req.PlaceID))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.RawJSON(c, http.StatusOK, body)
}

// Autocomplete handles GET /api/autocomplete?input=...
func (h *Handler) Autocomplete(c *gin.Context) {
	var req AutocompleteRequest
	if err := c.ShouldBindQuery(&req); err != nil || blank(req.Input) {
		httpkit.HandleError(c, apperr.BadRequest(msgMissingInput))
		return
	}

	body, err := h.svc.Autocomplete(c.Request.Context(), strings.TrimSpace(req.Input))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.RawJSON(c, http.StatusOK, body)
}

// Preflight answers OPTIONS requests that reach the router without an
// Origin header. Real preflights are finished by the CORS middleware.
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
