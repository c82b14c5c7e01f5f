package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"county_lookup/internal/maps"
	"county_lookup/platform/apperr"
	"county_lookup/platform/logger"
)

const maxProxyBody = 1 << 20

// Provider is the controller's view of the mapping provider. The proxy and
// the in-process service satisfy it identically; which one is used is a
// configuration choice.
type Provider interface {
	Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error)
	PlaceLocation(ctx context.Context, placeID string) (maps.LatLng, error)
	ReverseGeocode(ctx context.Context, location maps.LatLng) (maps.GeocodeResult, error)
}

// Backend is the raw envelope API of maps.Service.
type Backend interface {
	Geocode(ctx context.Context, lat, lng string) ([]byte, error)
	PlaceDetails(ctx context.Context, placeID string) ([]byte, error)
	Autocomplete(ctx context.Context, input string) ([]byte, error)
}

// DirectTransport calls the provider in process, holding the credential
// itself. Suitable for trusted, non-browser deployments.
type DirectTransport struct {
	backend Backend
}

func NewDirectTransport(backend Backend) *DirectTransport {
	return &DirectTransport{backend: backend}
}

func (t *DirectTransport) Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error) {
	raw, err := t.backend.Autocomplete(ctx, input)
	if err != nil {
		return nil, err
	}
	var resp maps.AutocompleteResponse
	if err := decodeEnvelope(raw, &resp); err != nil {
		return nil, err
	}
	return predictionsFrom(resp)
}

func (t *DirectTransport) PlaceLocation(ctx context.Context, placeID string) (maps.LatLng, error) {
	raw, err := t.backend.PlaceDetails(ctx, placeID)
	if err != nil {
		return maps.LatLng{}, err
	}
	var resp maps.PlaceDetailsResponse
	if err := decodeEnvelope(raw, &resp); err != nil {
		return maps.LatLng{}, err
	}
	return locationFrom(resp)
}

func (t *DirectTransport) ReverseGeocode(ctx context.Context, location maps.LatLng) (maps.GeocodeResult, error) {
	lat, lng := formatLatLng(location)
	raw, err := t.backend.Geocode(ctx, lat, lng)
	if err != nil {
		return maps.GeocodeResult{}, err
	}
	var resp maps.GeocodeResponse
	if err := decodeEnvelope(raw, &resp); err != nil {
		return maps.GeocodeResult{}, err
	}
	return firstResult(resp)
}

// ProxyTransport calls the credential-shielding proxy over HTTP.
type ProxyTransport struct {
	client  *http.Client
	baseURL string
	log     *logger.Logger
}

func NewProxyTransport(baseURL string, timeout time.Duration, log *logger.Logger) *ProxyTransport {
	return &ProxyTransport{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		log:     log,
	}
}

func (t *ProxyTransport) Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error) {
	params := url.Values{}
	params.Set("input", input)

	var resp maps.AutocompleteResponse
	if err := t.get(ctx, "/autocomplete", params, &resp); err != nil {
		return nil, err
	}
	return predictionsFrom(resp)
}

func (t *ProxyTransport) PlaceLocation(ctx context.Context, placeID string) (maps.LatLng, error) {
	params := url.Values{}
	params.Set("place_id", placeID)

	var resp maps.PlaceDetailsResponse
	if err := t.get(ctx, "/place-details", params, &resp); err != nil {
		return maps.LatLng{}, err
	}
	return locationFrom(resp)
}

func (t *ProxyTransport) ReverseGeocode(ctx context.Context, location maps.LatLng) (maps.GeocodeResult, error) {
	lat, lng := formatLatLng(location)
	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lng", lng)

	var resp maps.GeocodeResponse
	if err := t.get(ctx, "/geocode", params, &resp); err != nil {
		return maps.GeocodeResult{}, err
	}
	return firstResult(resp)
}

// proxyError is the proxy's {error, message} body.
type proxyError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (t *ProxyTransport) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := t.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperr.UpstreamUnavailable("request could not be built", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.WithContext(ctx).Error("proxy request failed", "path", path, "error", err)
		return apperr.UpstreamUnavailable("proxy unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if err != nil {
		return apperr.UpstreamUnavailable("proxy response unreadable", err)
	}

	if resp.StatusCode != http.StatusOK {
		var perr proxyError
		_ = json.Unmarshal(body, &perr)
		t.log.WithContext(ctx).Warn("proxy returned error", "path", path, "status", resp.StatusCode, "error", perr.Error)
		if resp.StatusCode >= http.StatusInternalServerError || perr.Error == "" {
			return apperr.UpstreamUnavailable(perr.Error, fmt.Errorf("proxy status %d", resp.StatusCode))
		}
		return apperr.Upstream(perr.Error, perr.Message)
	}

	return decodeEnvelope(body, out)
}

func decodeEnvelope(raw []byte, out interface{}) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.UpstreamUnavailable("malformed provider payload", err)
	}
	return nil
}

func predictionsFrom(resp maps.AutocompleteResponse) ([]maps.Prediction, error) {
	switch resp.Status {
	case maps.StatusOK:
		return resp.Predictions, nil
	case maps.StatusZeroResults:
		return nil, nil
	default:
		return nil, apperr.Upstream(resp.Status, resp.ErrorMessage)
	}
}

func locationFrom(resp maps.PlaceDetailsResponse) (maps.LatLng, error) {
	if resp.Status != maps.StatusOK {
		return maps.LatLng{}, apperr.Upstream(resp.Status, resp.ErrorMessage)
	}
	if resp.Result == nil || resp.Result.Geometry == nil || resp.Result.Geometry.Location == nil {
		return maps.LatLng{}, apperr.Upstream("NO_GEOMETRY", "place has no location")
	}
	return *resp.Result.Geometry.Location, nil
}

func firstResult(resp maps.GeocodeResponse) (maps.GeocodeResult, error) {
	if resp.Status != maps.StatusOK {
		return maps.GeocodeResult{}, apperr.Upstream(resp.Status, resp.ErrorMessage)
	}
	if len(resp.Results) == 0 {
		return maps.GeocodeResult{}, apperr.Upstream(maps.StatusZeroResults, "")
	}
	return resp.Results[0], nil
}

func formatLatLng(location maps.LatLng) (string, string) {
	return strconv.FormatFloat(location.Lat, 'f', -1, 64), strconv.FormatFloat(location.Lng, 'f', -1, 64)
}
