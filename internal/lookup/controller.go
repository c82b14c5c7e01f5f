package lookup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"county_lookup/internal/maps"
	"county_lookup/platform/logger"
)

// ErrNoSuggestion is returned by Select for an index outside the current
// suggestion list.
var ErrNoSuggestion = errors.New("no suggestion at that position")

// State is the controller's position in the lookup flow.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuggesting
	StateResolving
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSuggesting:
		return "suggesting"
	case StateResolving:
		return "resolving"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options tune the controller. Zero values take the defaults.
type Options struct {
	Debounce  time.Duration
	BlurGrace time.Duration
	MinChars  int
	AfterFunc AfterFunc
}

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultBlurGrace = 200 * time.Millisecond
	DefaultMinChars  = 3
)

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.BlurGrace <= 0 {
		o.BlurGrace = DefaultBlurGrace
	}
	if o.MinChars <= 0 {
		o.MinChars = DefaultMinChars
	}
	if o.AfterFunc == nil {
		o.AfterFunc = systemAfterFunc
	}
	return o
}

// Controller turns keystrokes into debounced autocomplete calls and a
// selection into a county lookup. Timer callbacks and resolutions run on
// their own goroutines; all state is guarded by mu and the provider is
// never called with mu held.
//
// When requests overlap, the last one started wins: every autocomplete
// fire and every resolution carries a generation number and answers from
// an older generation are dropped.
type Controller struct {
	provider Provider
	view     View
	log      *logger.Logger
	opts     Options
	baseCtx  context.Context

	mu            sync.Mutex
	state         State
	text          string
	timer         Timer
	blurTimer     Timer
	suggestions   []maps.Prediction
	suggestGen    uint64
	resolveGen    uint64
	cancelResolve context.CancelFunc
	selected      *maps.Prediction
	last          *Result

	wg sync.WaitGroup
}

func NewController(ctx context.Context, provider Provider, view View, log *logger.Logger, opts Options) *Controller {
	return &Controller{
		provider: provider,
		view:     view,
		log:      log,
		opts:     opts.withDefaults(),
		baseCtx:  ctx,
	}
}

// Input records the current text of the address field. Short input clears
// the suggestion list; anything else restarts the debounce timer.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	c.suggestGen++
	c.stopTimerLocked()

	if utf8.RuneCountInString(strings.TrimSpace(text)) < c.opts.MinChars {
		c.suggestions = nil
		c.view.HideSuggestions()
		c.state = StateIdle
		return
	}

	gen := c.suggestGen
	c.wg.Add(1)
	c.timer = c.opts.AfterFunc(c.opts.Debounce, func() {
		c.fire(gen)
	})
	c.state = StatePending
}

// stopTimerLocked cancels a pending debounce. A timer stopped before it
// fired still holds a wait group slot, released here.
func (c *Controller) stopTimerLocked() {
	if c.timer == nil {
		return
	}
	if c.timer.Stop() {
		c.wg.Done()
	}
	c.timer = nil
}

func (c *Controller) fire(gen uint64) {
	defer c.wg.Done()

	c.mu.Lock()
	if gen != c.suggestGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	query := strings.TrimSpace(c.text)
	c.mu.Unlock()

	predictions, err := c.provider.Autocomplete(c.baseCtx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.suggestGen {
		c.log.Debug("dropping stale suggestions", "query", query)
		return
	}

	if err != nil {
		c.log.Warn("autocomplete failed", "error", err)
		c.suggestions = nil
		c.view.HideSuggestions()
		c.view.ShowError(MsgSuggestionsFailed)
		c.state = StateIdle
		return
	}

	if len(predictions) == 0 {
		c.suggestions = nil
		c.view.HideSuggestions()
		c.state = StateIdle
		return
	}

	c.suggestions = predictions
	c.view.ShowSuggestions(predictions)
	c.state = StateSuggesting
}

// Select picks the suggestion at index and starts resolving it. A
// resolution already in flight is cancelled.
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.suggestions) {
		return ErrNoSuggestion
	}

	pick := c.suggestions[index]
	c.selected = &pick
	c.text = pick.Description
	c.suggestGen++
	c.stopTimerLocked()
	c.suggestions = nil

	c.view.SetInput(pick.Description)
	c.view.HideSuggestions()
	c.view.HideError()
	c.view.HideResult()
	c.view.SetLoading(true)
	c.state = StateResolving

	if c.cancelResolve != nil {
		c.cancelResolve()
	}
	c.resolveGen++
	gen := c.resolveGen
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancelResolve = cancel

	c.wg.Add(1)
	go c.resolve(ctx, cancel, gen, pick.PlaceID)
	return nil
}

func (c *Controller) resolve(ctx context.Context, cancel context.CancelFunc, gen uint64, placeID string) {
	defer c.wg.Done()
	defer cancel()

	result, err := Resolve(ctx, c.provider, placeID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.resolveGen {
		c.log.Debug("dropping superseded resolution", "place_id", placeID)
		return
	}
	c.cancelResolve = nil
	c.view.SetLoading(false)

	if err != nil {
		c.log.Warn("county lookup failed", "place_id", placeID, "error", err)
		c.view.ShowError(UserMessage(err))
		c.settleResolve(StateError)
		return
	}

	c.last = &result
	c.view.ShowResult(result.Info, result.FormattedAddress)
	c.settleResolve(StateDone)
}

// settleResolve moves a resolution to its final state unless typing has
// already moved the field on. Caller holds c.mu.
func (c *Controller) settleResolve(final State) {
	if c.state == StateResolving {
		c.state = final
	}
}

// Blur hides the suggestion list after the grace period, leaving time for
// a click on a suggestion to land first.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blurTimer != nil {
		c.blurTimer.Stop()
	}
	c.blurTimer = c.opts.AfterFunc(c.opts.BlurGrace, c.hideAfterBlur)
}

func (c *Controller) hideAfterBlur() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blurTimer = nil
	c.suggestions = nil
	c.view.HideSuggestions()
	if c.state == StateSuggesting {
		c.state = StateIdle
	}
}

// Wait blocks until pending debounces and resolutions have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close abandons pending work and waits for in-flight calls to return.
func (c *Controller) Close() {
	c.mu.Lock()
	c.suggestGen++
	c.resolveGen++
	c.stopTimerLocked()
	if c.blurTimer != nil {
		c.blurTimer.Stop()
		c.blurTimer = nil
	}
	if c.cancelResolve != nil {
		c.cancelResolve()
		c.cancelResolve = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Suggestions returns a copy of the list currently on offer.
func (c *Controller) Suggestions() []maps.Prediction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]maps.Prediction, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Selected returns the most recent pick, if any.
func (c *Controller) Selected() (maps.Prediction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return maps.Prediction{}, false
	}
	return *c.selected, true
}

// LastResult returns the most recent successful resolution.
func (c *Controller) LastResult() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Result{}, false
	}
	return *c.last, true
}
