package lookup

import (
	"context"
	"errors"

	"county_lookup/internal/maps"
	"county_lookup/platform/apperr"
)

// Stage names one step of the resolution pipeline.
type Stage string

const (
	StagePlaceDetails Stage = "place-details"
	StageGeocode      Stage = "geocode"
	StageClassify     Stage = "classify"
)

// User-facing messages, one per way a lookup can fail.
const (
	MsgSuggestionsFailed  = "Failed to fetch address suggestions"
	MsgLocationUnusable   = "Unable to get location details"
	MsgPlaceDetailsFailed = "Failed to get place details"
	MsgCountyUnusable     = "Unable to retrieve county information"
	MsgGeocodeFailed      = "Failed to get county information"
	MsgNoCountyData       = "County information not available for this address"
	msgUnexpected         = "Something went wrong, please try again"
)

// Result is a fully resolved address.
type Result struct {
	PlaceID          string
	Location         maps.LatLng
	FormattedAddress string
	Info             maps.CountyInfo
}

// Resolve runs place details, reverse geocoding and classification in
// order. Each stage's failure is returned as an *apperr.Error whose Message
// is safe to show to the user and whose Op names the stage.
func Resolve(ctx context.Context, provider Provider, placeID string) (Result, error) {
	location, err := provider.PlaceLocation(ctx, placeID)
	if err != nil {
		return Result{}, stageError(ctx, StagePlaceDetails, err, MsgLocationUnusable, MsgPlaceDetailsFailed)
	}

	geocoded, err := provider.ReverseGeocode(ctx, location)
	if err != nil {
		return Result{}, stageError(ctx, StageGeocode, err, MsgCountyUnusable, MsgGeocodeFailed)
	}

	info := maps.ClassifyComponents(geocoded.AddressComponents)
	if !info.HasCounty() {
		return Result{}, apperr.NotFound(MsgNoCountyData).WithOp(string(StageClassify))
	}

	return Result{
		PlaceID:          placeID,
		Location:         location,
		FormattedAddress: geocoded.FormattedAddress,
		Info:             info,
	}, nil
}

// stageError picks the stage's message: unusable when the provider answered
// with a non-OK status, failed for everything else.
func stageError(ctx context.Context, stage Stage, err error, unusable, failed string) error {
	if ctx.Err() != nil {
		return apperr.Wrap(apperr.KindUnknown, failed, ctx.Err()).WithOp(string(stage))
	}
	if apperr.Is(err, apperr.KindUpstream) {
		return apperr.Wrap(apperr.KindUpstream, unusable, err).WithOp(string(stage))
	}
	return apperr.Wrap(apperr.KindUpstreamUnavailable, failed, err).WithOp(string(stage))
}

// UserMessage extracts the message to show for err. Errors that did not
// come from the pipeline get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return msgUnexpected
}
