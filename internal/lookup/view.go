package lookup

import (
	"fmt"
	"io"
	"sync"

	"county_lookup/internal/maps"
	"county_lookup/platform/sanitize"
)

// Placeholder is shown for any field the classifier left absent.
const Placeholder = "—"

// View is the presentation seam. Calls are made while the controller holds
// its lock, so implementations must not block or call back into it.
type View interface {
	ShowSuggestions(suggestions []maps.Prediction)
	HideSuggestions()
	SetInput(text string)
	ShowResult(info maps.CountyInfo, formattedAddress string)
	HideResult()
	ShowError(message string)
	HideError()
	SetLoading(loading bool)
}

// ResultCard holds the display strings for one resolved address.
type ResultCard struct {
	County      string
	FullAddress string
	City        string
	State       string
	Zip         string
}

// FormatResult renders info for display, substituting Placeholder for
// absent fields. The state reads "Texas (TX)" when the short form is known.
func FormatResult(info maps.CountyInfo, formattedAddress string) ResultCard {
	state := orPlaceholder(info.State)
	if info.StateShort != "" {
		state = fmt.Sprintf("%s (%s)", state, info.StateShort)
	}

	return ResultCard{
		County:      orPlaceholder(info.County),
		FullAddress: orPlaceholder(formattedAddress),
		City:        orPlaceholder(info.City),
		State:       state,
		Zip:         orPlaceholder(info.Zip),
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// TextView renders the lookup to a terminal. Labels follow the element ids
// of the browser front end.
type TextView struct {
	mu                 sync.Mutex
	w                  io.Writer
	suggestionsVisible bool
	loading            bool
}

func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

func (v *TextView) ShowSuggestions(suggestions []maps.Prediction) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.suggestionsVisible = true
	fmt.Fprintln(v.w, "suggestions:")
	for i, s := range suggestions {
		fmt.Fprintf(v.w, "  %d) %s\n", i+1, sanitize.Text(s.Description))
	}
}

func (v *TextView) HideSuggestions() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.suggestionsVisible = false
}

func (v *TextView) SetInput(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.w, "address-input: %s\n", sanitize.Text(text))
}

func (v *TextView) ShowResult(info maps.CountyInfo, formattedAddress string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	card := FormatResult(info, formattedAddress)
	fmt.Fprintln(v.w, "result-card")
	fmt.Fprintf(v.w, "  county-name:  %s\n", sanitize.Text(card.County))
	fmt.Fprintf(v.w, "  full-address: %s\n", sanitize.Text(card.FullAddress))
	fmt.Fprintf(v.w, "  city:         %s\n", sanitize.Text(card.City))
	fmt.Fprintf(v.w, "  state:        %s\n", sanitize.Text(card.State))
	fmt.Fprintf(v.w, "  zip:          %s\n", sanitize.Text(card.Zip))
}

func (v *TextView) HideResult() {}

func (v *TextView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.w, "error: %s\n", message)
}

func (v *TextView) HideError() {}

func (v *TextView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if loading && !v.loading {
		fmt.Fprintln(v.w, "loading...")
	}
	v.loading = loading
}

// SuggestionsVisible reports whether a suggestion list is on screen.
func (v *TextView) SuggestionsVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.suggestionsVisible
}

var _ View = (*TextView)(nil)
