package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"county_lookup/internal/maps"
	"county_lookup/platform/apperr"
	"county_lookup/platform/logger"
)

const (
	testDebounce  = 300 * time.Millisecond
	testBlurGrace = 200 * time.Millisecond
)

func newTestController(t *testing.T, provider Provider) (*Controller, *recordingView, *manualClock) {
	t.Helper()
	view := &recordingView{}
	clock := &manualClock{}
	c := NewController(context.Background(), provider, view, logger.Discard(), Options{
		Debounce:  testDebounce,
		BlurGrace: testBlurGrace,
		MinChars:  3,
		AfterFunc: clock.AfterFunc,
	})
	t.Cleanup(c.Close)
	return c, view, clock
}

func travisProvider() *stubProvider {
	p := newStubProvider()
	p.predictions["austin"] = []maps.Prediction{
		{Description: "Austin, TX, USA", PlaceID: "p-austin"},
		{Description: "Austin, MN, USA", PlaceID: "p-austin-mn"},
	}
	p.locations["p-austin"] = maps.LatLng{Lat: 30.2672, Lng: -97.7431}
	p.geocoded[30.2672] = maps.GeocodeResult{
		FormattedAddress:  "Austin, TX, USA",
		AddressComponents: travisComponents(),
	}
	return p
}

func travisComponents() []maps.AddressComponent {
	return []maps.AddressComponent{
		{LongName: "Austin", ShortName: "Austin", Types: []string{"locality", "political"}},
		{LongName: "Travis County", ShortName: "Travis County", Types: []string{"administrative_area_level_2", "political"}},
		{LongName: "Texas", ShortName: "TX", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "78701", ShortName: "78701", Types: []string{"postal_code"}},
	}
}

func TestShortInputNeverCallsProvider(t *testing.T) {
	p := travisProvider()
	c, view, clock := newTestController(t, p)

	c.Input("a")
	c.Input("ab")
	c.Input("  ab  ")

	if n := clock.pending(testDebounce); n != 0 {
		t.Fatalf("expected no debounce timers, got %d", n)
	}
	clock.fire(testDebounce)
	c.Wait()

	if q := p.autocompleteQueries(); len(q) != 0 {
		t.Fatalf("expected zero provider requests, got %v", q)
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	if view.snapshot().suggestionsVisible {
		t.Fatalf("expected suggestions hidden")
	}
}

func TestRapidKeystrokesProduceOneRequest(t *testing.T) {
	p := travisProvider()
	c, view, clock := newTestController(t, p)

	for _, text := range []string{"aus", "aust", "austi", "austin"} {
		c.Input(text)
	}
	if c.State() != StatePending {
		t.Fatalf("expected pending, got %s", c.State())
	}
	if n := clock.pending(testDebounce); n != 1 {
		t.Fatalf("expected one live timer, got %d", n)
	}

	clock.fire(testDebounce)
	c.Wait()

	q := p.autocompleteQueries()
	if len(q) != 1 || q[0] != "austin" {
		t.Fatalf("expected a single query for the final text, got %v", q)
	}
	if c.State() != StateSuggesting {
		t.Fatalf("expected suggesting, got %s", c.State())
	}
	snap := view.snapshot()
	if !snap.suggestionsVisible || len(snap.suggestions) != 2 {
		t.Fatalf("expected two visible suggestions, got %+v", snap.suggestions)
	}
}

func TestQueryIsTrimmed(t *testing.T) {
	p := travisProvider()
	c, _, clock := newTestController(t, p)

	c.Input("  austin  ")
	clock.fire(testDebounce)
	c.Wait()

	if q := p.autocompleteQueries(); len(q) != 1 || q[0] != "austin" {
		t.Fatalf("expected trimmed query, got %v", q)
	}
}

func TestShortInputCancelsPendingDebounce(t *testing.T) {
	p := travisProvider()
	c, _, clock := newTestController(t, p)

	c.Input("austin")
	c.Input("au")

	if n := clock.fire(testDebounce); n != 0 {
		t.Fatalf("expected stopped timer not to fire, %d fired", n)
	}
	c.Wait()
	if q := p.autocompleteQueries(); len(q) != 0 {
		t.Fatalf("expected no requests, got %v", q)
	}
}

func TestEmptySuggestionsGoIdle(t *testing.T) {
	p := travisProvider()
	c, view, clock := newTestController(t, p)

	c.Input("zzzzzz")
	clock.fire(testDebounce)
	c.Wait()

	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	if view.snapshot().suggestionsVisible {
		t.Fatalf("expected suggestions hidden")
	}
}

func TestAutocompleteFailureShowsMessage(t *testing.T) {
	p := travisProvider()
	p.suggestErr = apperr.UpstreamUnavailable("proxy unreachable", errors.New("dial tcp"))
	c, view, clock := newTestController(t, p)

	c.Input("austin")
	clock.fire(testDebounce)
	c.Wait()

	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	snap := view.snapshot()
	if snap.suggestionsVisible {
		t.Fatalf("expected suggestions hidden")
	}
	if len(snap.errors) != 1 || snap.errors[0] != MsgSuggestionsFailed {
		t.Fatalf("unexpected errors %v", snap.errors)
	}
}

func TestStaleSuggestionsAreDropped(t *testing.T) {
	p := travisProvider()
	p.predictions["austin tx"] = []maps.Prediction{{Description: "Austin, TX, USA", PlaceID: "p-austin"}}
	c, view, clock := newTestController(t, p)

	// The user keeps typing while the first request is in flight.
	typed := false
	p.onSuggest = func(input string) {
		if input == "austin" && !typed {
			typed = true
			c.Input("austin tx")
		}
	}

	c.Input("austin")
	clock.fire(testDebounce)

	if c.State() != StatePending {
		t.Fatalf("expected stale answer to leave controller pending, got %s", c.State())
	}
	if view.snapshot().suggestionsVisible {
		t.Fatalf("stale suggestions must not be shown")
	}

	clock.fire(testDebounce)
	c.Wait()

	snap := view.snapshot()
	if len(snap.suggestions) != 1 || snap.suggestions[0].PlaceID != "p-austin" {
		t.Fatalf("expected fresh suggestions, got %+v", snap.suggestions)
	}
}

func TestSelectResolvesCounty(t *testing.T) {
	p := travisProvider()
	c, view, clock := newTestController(t, p)

	c.Input("austin")
	clock.fire(testDebounce)
	c.Wait()

	if err := c.Select(0); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	c.Wait()

	if c.State() != StateDone {
		t.Fatalf("expected done, got %s", c.State())
	}
	snap := view.snapshot()
	if snap.input != "Austin, TX, USA" {
		t.Fatalf("expected input to show the pick, got %q", snap.input)
	}
	if snap.suggestionsVisible {
		t.Fatalf("expected suggestions hidden after select")
	}
	if snap.loading {
		t.Fatalf("expected loading cleared")
	}
	if snap.result == nil || snap.result.County != "Travis County" || snap.result.StateShort != "TX" {
		t.Fatalf("unexpected result %+v", snap.result)
	}
	if snap.address != "Austin, TX, USA" {
		t.Fatalf("unexpected address %q", snap.address)
	}

	picked, ok := c.Selected()
	if !ok || picked.PlaceID != "p-austin" {
		t.Fatalf("unexpected selection %+v", picked)
	}
	last, ok := c.LastResult()
	if !ok || last.Info.Zip != "78701" {
		t.Fatalf("unexpected last result %+v", last)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	c, _, _ := newTestController(t, travisProvider())

	if err := c.Select(0); !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("expected ErrNoSuggestion, got %v", err)
	}
}

func TestSelectFailureShowsStageMessage(t *testing.T) {
	p := travisProvider()
	c, view, clock := newTestController(t, p)

	c.Input("austin")
	clock.fire(testDebounce)
	c.Wait()

	// p-austin-mn has no canned location, so place details is not OK.
	if err := c.Select(1); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	c.Wait()

	if c.State() != StateError {
		t.Fatalf("expected error state, got %s", c.State())
	}
	snap := view.snapshot()
	if len(snap.errors) != 1 || snap.errors[0] != MsgLocationUnusable {
		t.Fatalf("unexpected errors %v", snap.errors)
	}
	if snap.loading {
		t.Fatalf("expected loading cleared")
	}
	if snap.result != nil {
		t.Fatalf("expected no result card")
	}
}

func TestNewerSelectionWins(t *testing.T) {
	p := travisProvider()
	p.predictions["slow town"] = []maps.Prediction{{Description: "Slow Town, TX, USA", PlaceID: "p-slow"}}
	p.blockPlaces["p-slow"] = true
	c, view, clock := newTestController(t, p)

	c.Input("slow town")
	clock.fire(testDebounce)
	c.Wait()
	if err := c.Select(0); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}

	c.Input("austin")
	clock.fire(testDebounce)
	if err := c.Select(0); err != nil {
		t.Fatalf("second Select returned error: %v", err)
	}
	c.Wait()

	if !p.wasCancelled("p-slow") {
		t.Fatalf("expected superseded resolution to be cancelled")
	}
	if c.State() != StateDone {
		t.Fatalf("expected done, got %s", c.State())
	}
	last, ok := c.LastResult()
	if !ok || last.PlaceID != "p-austin" {
		t.Fatalf("expected the newer pick to win, got %+v", last)
	}
	if errs := view.snapshot().errors; len(errs) != 0 {
		t.Fatalf("superseded failure must not be shown, got %v", errs)
	}
}

func TestTypingDuringResolutionKeepsSuggestingState(t *testing.T) {
	p := travisProvider()
	p.predictions["dallas"] = []maps.Prediction{{Description: "Dallas, TX, USA", PlaceID: "p-dallas"}}
	gate := make(chan struct{})
	p.gates["p-austin"] = gate
	c, _, clock := newTestController(t, p)

	c.Input("austin")
	clock.fire(testDebounce)
	c.Wait()
	if err := c.Select(0); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}

	c.Input("dallas")
	clock.fire(testDebounce)
	if c.State() != StateSuggesting {
		t.Fatalf("expected suggesting while resolution is in flight, got %s", c.State())
	}

	close(gate)
	c.Wait()
	if c.State() != StateSuggesting {
		t.Fatalf("late resolution must not overwrite suggesting, got %s", c.State())
	}

	c.Blur()
	clock.fire(testBlurGrace)
	if c.State() != StateIdle {
		t.Fatalf("expected idle after blur, got %s", c.State())
	}
}

func TestBlurHidesAfterGrace(t *testing.T) {
	p := travisProvider()
	c, view, clock := newTestController(t, p)

	c.Input("austin")
	clock.fire(testDebounce)
	c.Wait()

	c.Blur()
	if !view.snapshot().suggestionsVisible {
		t.Fatalf("suggestions must stay visible during the grace period")
	}
	if err := c.Select(0); err != nil {
		t.Fatalf("a click within the grace period should still select: %v", err)
	}
	c.Wait()

	c.Input("austin")
	clock.fire(testDebounce)
	c.Wait()
	c.Blur()
	clock.fire(testBlurGrace)

	if view.snapshot().suggestionsVisible {
		t.Fatalf("expected suggestions hidden after grace")
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle after blur, got %s", c.State())
	}
	if len(c.Suggestions()) != 0 {
		t.Fatalf("expected suggestions cleared")
	}
}

func TestStateString(t *testing.T) {
	if StateResolving.String() != "resolving" {
		t.Fatalf("unexpected %q", StateResolving.String())
	}
	if State(42).String() != "unknown" {
		t.Fatalf("unexpected %q", State(42).String())
	}
}
