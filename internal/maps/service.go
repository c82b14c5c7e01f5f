package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"county_lookup/platform/apperr"
	"county_lookup/platform/config"
	"county_lookup/platform/logger"
	"county_lookup/platform/metrics"
	"county_lookup/platform/sanitize"
)

const (
	endpointGeocode      = "geocode"
	endpointPlaceDetails = "place-details"
	endpointAutocomplete = "autocomplete"

	maxUpstreamBody = 1 << 20

	msgKeyNotConfigured   = "API key not configured"
	msgGeocodeFailed      = "Failed to geocode address"
	msgPlaceDetailsFailed = "Failed to get place details"
	msgAutocompleteFailed = "Failed to fetch autocomplete suggestions"
	msgUpstreamMalformed  = "malformed provider payload"
)

var emptyPredictions = []byte(`{"status":"ZERO_RESULTS","predictions":[]}`)

// Service forwards queries to the mapping provider, attaching the
// server-held API key. Successful envelopes are returned byte for byte.
type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

func NewService(cfg config.ProviderConfig, log *logger.Logger) *Service {
	return &Service{
		client:  &http.Client{Timeout: cfg.GetProviderTimeout()},
		baseURL: cfg.GetProviderBaseURL(),
		apiKey:  cfg.GetGoogleAPIKey(),
		log:     log,
	}
}

// Configured reports whether the API key is present.
func (s *Service) Configured() bool {
	return s.apiKey != ""
}

// Geocode reverse-geocodes a coordinate pair given in its textual form.
func (s *Service) Geocode(ctx context.Context, lat, lng string) ([]byte, error) {
	params := url.Values{}
	params.Set("latlng", strings.TrimSpace(lat)+","+strings.TrimSpace(lng))
	return s.fetch(ctx, endpointGeocode, "/geocode/json", params, msgGeocodeFailed)
}

// PlaceDetails looks up a place's geometry. Only the geometry field is
// requested to keep the call in the cheapest billing tier.
func (s *Service) PlaceDetails(ctx context.Context, placeID string) ([]byte, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "geometry")
	return s.fetch(ctx, endpointPlaceDetails, "/place/details/json", params, msgPlaceDetailsFailed)
}

// Autocomplete returns address predictions restricted to the US. A
// ZERO_RESULTS answer is a success with an empty prediction list.
func (s *Service) Autocomplete(ctx context.Context, input string) ([]byte, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "address")
	params.Set("components", "country:us")
	return s.fetch(ctx, endpointAutocomplete, "/place/autocomplete/json", params, msgAutocompleteFailed)
}

func (s *Service) fetch(ctx context.Context, endpoint, path string, params url.Values, failure string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, apperr.Config(msgKeyNotConfigured).WithOp("maps." + endpoint)
	}

	log := s.log.WithContext(ctx)
	started := time.Now()

	params.Set("key", s.apiKey)
	reqURL := s.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, s.unavailable(log, endpoint, failure, err, started)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.unavailable(log, endpoint, failure, err, started)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, s.unavailable(log, endpoint, failure, fmt.Errorf("upstream http status %d", resp.StatusCode), started)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, s.unavailable(log, endpoint, failure, fmt.Errorf("read body: %w", err), started)
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, s.unavailable(log, endpoint, failure, fmt.Errorf("decode envelope: %w", err), started)
	}
	if envelope.Status == "" {
		return nil, s.unavailable(log, endpoint, failure, errors.New(msgUpstreamMalformed), started)
	}

	switch {
	case envelope.Status == StatusOK:
		metrics.ObserveUpstream(endpoint, metrics.OutcomeOK, started)
		return body, nil
	case envelope.Status == StatusZeroResults && endpoint == endpointAutocomplete:
		metrics.ObserveUpstream(endpoint, metrics.OutcomeZeroResults, started)
		return emptyPredictions, nil
	}

	metrics.ObserveUpstream(endpoint, metrics.OutcomeStatus, started)
	message := sanitize.Redact(envelope.ErrorMessage, s.apiKey)
	var cause error
	if message != "" {
		cause = errors.New(message)
	}
	log.UpstreamError(endpoint, envelope.Status, cause)
	return nil, apperr.Upstream(envelope.Status, message).WithOp("maps." + endpoint)
}

// unavailable logs the cause with the key scrubbed and hides it behind the
// generic client-facing message.
func (s *Service) unavailable(log *logger.Logger, endpoint, failure string, cause error, started time.Time) error {
	metrics.ObserveUpstream(endpoint, metrics.OutcomeFailure, started)
	scrubbed := errors.New(sanitize.Redact(cause.Error(), s.apiKey))
	log.UpstreamError(endpoint, "", scrubbed)
	return apperr.UpstreamUnavailable(failure, scrubbed).WithOp("maps." + endpoint)
}
