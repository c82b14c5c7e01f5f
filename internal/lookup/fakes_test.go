package lookup

import (
	"context"
	"sync"
	"time"

	"county_lookup/internal/maps"
	"county_lookup/platform/apperr"
)

// stubProvider answers from canned maps keyed by input, place ID and
// latitude.
type stubProvider struct {
	mu sync.Mutex

	predictions  map[string][]maps.Prediction
	locations    map[string]maps.LatLng
	geocoded     map[float64]maps.GeocodeResult
	suggestErr   error
	locationErr  error
	geocodeErr   error
	blockPlaces  map[string]bool
	gates        map[string]chan struct{}
	onSuggest    func(input string)
	queries      []string
	cancelled    map[string]bool
	locationHits int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		predictions: map[string][]maps.Prediction{},
		locations:   map[string]maps.LatLng{},
		geocoded:    map[float64]maps.GeocodeResult{},
		blockPlaces: map[string]bool{},
		gates:       map[string]chan struct{}{},
		cancelled:   map[string]bool{},
	}
}

func (p *stubProvider) Autocomplete(_ context.Context, input string) ([]maps.Prediction, error) {
	p.mu.Lock()
	p.queries = append(p.queries, input)
	hook := p.onSuggest
	preds, err := p.predictions[input], p.suggestErr
	p.mu.Unlock()

	if hook != nil {
		hook(input)
	}
	return preds, err
}

func (p *stubProvider) PlaceLocation(ctx context.Context, placeID string) (maps.LatLng, error) {
	p.mu.Lock()
	p.locationHits++
	block := p.blockPlaces[placeID]
	gate := p.gates[placeID]
	loc, ok := p.locations[placeID]
	err := p.locationErr
	p.mu.Unlock()

	if block {
		<-ctx.Done()
		p.mu.Lock()
		p.cancelled[placeID] = true
		p.mu.Unlock()
		return maps.LatLng{}, ctx.Err()
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return maps.LatLng{}, ctx.Err()
		}
	}
	if err != nil {
		return maps.LatLng{}, err
	}
	if !ok {
		return maps.LatLng{}, apperr.Upstream("NOT_FOUND", "")
	}
	return loc, nil
}

func (p *stubProvider) ReverseGeocode(_ context.Context, location maps.LatLng) (maps.GeocodeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.geocodeErr != nil {
		return maps.GeocodeResult{}, p.geocodeErr
	}
	result, ok := p.geocoded[location.Lat]
	if !ok {
		return maps.GeocodeResult{}, apperr.Upstream(maps.StatusZeroResults, "")
	}
	return result, nil
}

func (p *stubProvider) autocompleteQueries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

func (p *stubProvider) wasCancelled(placeID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled[placeID]
}

// recordingView remembers what the controller last asked it to display.
type recordingView struct {
	mu sync.Mutex

	suggestions        []maps.Prediction
	suggestionsVisible bool
	input              string
	result             *maps.CountyInfo
	address            string
	errors             []string
	errorVisible       bool
	loading            bool
}

func (v *recordingView) ShowSuggestions(s []maps.Prediction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.suggestions = s
	v.suggestionsVisible = true
}

func (v *recordingView) HideSuggestions() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.suggestionsVisible = false
}

func (v *recordingView) SetInput(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = text
}

func (v *recordingView) ShowResult(info maps.CountyInfo, formattedAddress string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = &info
	v.address = formattedAddress
}

func (v *recordingView) HideResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = nil
}

func (v *recordingView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
	v.errorVisible = true
}

func (v *recordingView) HideError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorVisible = false
}

func (v *recordingView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

func (v *recordingView) snapshot() recordingView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return recordingView{
		suggestions:        v.suggestions,
		suggestionsVisible: v.suggestionsVisible,
		input:              v.input,
		result:             v.result,
		address:            v.address,
		errors:             append([]string(nil), v.errors...),
		errorVisible:       v.errorVisible,
		loading:            v.loading,
	}
}

// manualClock hands out timers that only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// pending counts live timers of duration d.
func (c *manualClock) pending(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.d == d && !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fire runs every live timer of duration d on the calling goroutine and
// reports how many ran.
func (c *manualClock) fire(d time.Duration) int {
	c.mu.Lock()
	var due []*manualTimer
	for _, t := range c.timers {
		if t.d == d && !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}
