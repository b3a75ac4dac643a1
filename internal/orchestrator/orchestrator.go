// Package orchestrator owns the selection, drives the data service and
// derives the single ViewState the dashboard renders.
//
// The Orchestrator follows the Bubble Tea model: operations return a tea.Cmd
// that performs the network call and yields a message, and Update applies
// that message. Every mutation happens on the caller's goroutine, so no locks
// are needed; commands may run anywhere and in any order.
//
// Each historical fetch is tagged with a generation that is bumped on every
// selection change. A completed fetch is applied only if its generation is
// still current, so a slow response for an older selection can never
// overwrite a newer one. Forecasts carry their own generation, bumped on
// every forecast request and every selection change.
package orchestrator

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tinytelemetry/econdash/internal/model"
)

// Reference is a snapshot of the session reference data.
type Reference struct {
	Countries        []model.Country
	Indicators       []model.Indicator
	CountriesLoaded  bool
	IndicatorsLoaded bool
	CountriesErr     error
	IndicatorsErr    error
}

// Orchestrator is the fetch state machine. The zero value is not usable;
// construct with New.
type Orchestrator struct {
	svc           model.DataService
	ctx           context.Context
	log           zerolog.Logger
	forecastYears int

	ref          Reference
	refRequested bool

	sel             model.Selection
	seriesGen       uint64
	forecastGen     uint64
	seriesPending   bool
	forecastPending bool

	view model.ViewState
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithContext sets the parent context of every dispatched request.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithForecastYears sets the forecast horizon. Non-positive values keep the
// default.
func WithForecastYears(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.forecastYears = n
		}
	}
}

// WithInitialSelection seeds the selection without dispatching anything.
func WithInitialSelection(sel model.Selection) Option {
	return func(o *Orchestrator) { o.sel = sel }
}

// New creates an orchestrator over svc with an empty selection over the
// default year range.
func New(svc model.DataService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		svc:           svc,
		ctx:           context.Background(),
		log:           zerolog.Nop(),
		forecastYears: model.DefaultForecastYears,
		sel:           model.NewSelection(model.DefaultRange()),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Init dispatches the two reference list requests. It runs at most once per
// orchestrator; later calls return nil.
func (o *Orchestrator) Init() tea.Cmd {
	if o.refRequested {
		return nil
	}
	o.refRequested = true

	svc, ctx := o.svc, o.ctx
	return tea.Batch(
		func() tea.Msg {
			list, err := svc.ListCountries(ctx)
			return ReferenceLoadedMsg{Kind: RefCountries, Countries: list, Err: err}
		},
		func() tea.Msg {
			list, err := svc.ListIndicators(ctx)
			return ReferenceLoadedMsg{Kind: RefIndicators, Indicators: list, Err: err}
		},
	)
}

// SetSelection replaces the selection. Any in-flight fetch becomes stale.
// A complete selection dispatches a historical fetch; an incomplete one
// returns to idle and clears the view.
func (o *Orchestrator) SetSelection(sel model.Selection) tea.Cmd {
	o.sel = sel
	o.seriesGen++
	o.forecastGen++
	o.forecastPending = false
	o.view.Forecast = nil

	if !sel.Complete() {
		o.seriesPending = false
		o.view = model.ViewState{}
		return nil
	}

	o.seriesPending = true
	o.view.Loading = true
	o.clearMessage()

	gen := o.seriesGen
	svc, ctx := o.svc, o.ctx
	countryID, indicatorID, r := sel.CountryID(), sel.IndicatorID(), sel.Range
	o.log.Debug().
		Uint64("gen", gen).
		Str("country", countryID).
		Str("indicator", indicatorID).
		Int("start", r.Start).
		Int("end", r.End).
		Msg("dispatching series fetch")

	return func() tea.Msg {
		points, err := svc.FetchSeries(ctx, countryID, indicatorID, r)
		return SeriesLoadedMsg{Gen: gen, Selection: sel, Points: points, Err: err}
	}
}

// Refresh re-dispatches the historical fetch for the current selection.
func (o *Orchestrator) Refresh() tea.Cmd {
	return o.SetSelection(o.sel)
}

// RequestForecast dispatches a forecast for the current selection. It is a
// no-op while the selection is incomplete.
func (o *Orchestrator) RequestForecast() tea.Cmd {
	if !o.sel.Complete() {
		return nil
	}

	o.forecastGen++
	o.forecastPending = true
	o.view.Loading = true
	o.clearMessage()

	gen := o.forecastGen
	svc, ctx, years := o.svc, o.ctx, o.forecastYears
	sel := o.sel
	countryID, indicatorID := sel.CountryID(), sel.IndicatorID()
	o.log.Debug().Uint64("gen", gen).Str("country", countryID).Str("indicator", indicatorID).Int("years", years).Msg("dispatching forecast fetch")

	return func() tea.Msg {
		points, err := svc.FetchForecast(ctx, countryID, indicatorID, years)
		return ForecastLoadedMsg{Gen: gen, Selection: sel, Points: points, Err: err}
	}
}

// Update applies a completion message. It reports whether the message
// changed state; stale and unrelated messages return false.
func (o *Orchestrator) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ReferenceLoadedMsg:
		return o.applyReference(msg)
	case SeriesLoadedMsg:
		return o.applySeries(msg)
	case ForecastLoadedMsg:
		return o.applyForecast(msg)
	}
	return false
}

func (o *Orchestrator) applyReference(msg ReferenceLoadedMsg) bool {
	switch msg.Kind {
	case RefCountries:
		if o.ref.CountriesLoaded {
			return false
		}
		o.ref.CountriesLoaded = true
		o.ref.CountriesErr = msg.Err
		if msg.Err == nil {
			o.ref.Countries = append([]model.Country(nil), msg.Countries...)
		}
	case RefIndicators:
		if o.ref.IndicatorsLoaded {
			return false
		}
		o.ref.IndicatorsLoaded = true
		o.ref.IndicatorsErr = msg.Err
		if msg.Err == nil {
			o.ref.Indicators = append([]model.Indicator(nil), msg.Indicators...)
		}
	default:
		return false
	}

	if msg.Err != nil {
		o.log.Warn().Err(msg.Err).Str("list", msg.Kind.String()).Msg("reference list unavailable")
	} else {
		o.log.Info().Str("list", msg.Kind.String()).Int("count", len(msg.Countries)+len(msg.Indicators)).Msg("reference list loaded")
	}
	return true
}

func (o *Orchestrator) applySeries(msg SeriesLoadedMsg) bool {
	if msg.Gen != o.seriesGen {
		o.log.Debug().Uint64("gen", msg.Gen).Uint64("current", o.seriesGen).Msg("discarding stale series response")
		return false
	}
	o.seriesPending = false

	switch {
	case msg.Err == nil && len(msg.Points) > 0:
		o.view.Historical = append([]model.SeriesPoint(nil), msg.Points...)
		o.clearMessage()
	case msg.Err == nil || model.IsNoData(msg.Err):
		o.view.Historical = []model.SeriesPoint{}
		o.setMessage(model.MsgNoData, model.MessageInfo)
	default:
		o.logFailure(msg.Err, "series fetch failed")
		o.view.Historical = []model.SeriesPoint{}
		o.setMessage(fmt.Sprintf("%s: %v", model.MsgLoadFailed, msg.Err), model.MessageError)
	}

	o.view.Loading = o.seriesPending || o.forecastPending
	return true
}

func (o *Orchestrator) applyForecast(msg ForecastLoadedMsg) bool {
	if msg.Gen != o.forecastGen {
		o.log.Debug().Uint64("gen", msg.Gen).Uint64("current", o.forecastGen).Msg("discarding stale forecast response")
		return false
	}
	o.forecastPending = false

	switch {
	case msg.Err == nil && len(msg.Points) > 0:
		o.view.Forecast = append([]model.ForecastPoint(nil), msg.Points...)
	case msg.Err == nil || model.IsNoData(msg.Err):
		o.view.Forecast = []model.ForecastPoint{}
		o.setMessage(model.MsgNoForecast, model.MessageInfo)
	default:
		o.logFailure(msg.Err, "forecast fetch failed")
		o.view.Forecast = []model.ForecastPoint{}
		o.setMessage(fmt.Sprintf("%s: %v", model.MsgForecastFailed, msg.Err), model.MessageError)
	}

	o.view.Loading = o.seriesPending || o.forecastPending
	return true
}

func (o *Orchestrator) logFailure(err error, msg string) {
	if model.IsProtocol(err) {
		o.log.Error().Err(err).Msg(msg)
		return
	}
	o.log.Warn().Err(err).Msg(msg)
}

func (o *Orchestrator) setMessage(text string, kind model.MessageKind) {
	o.view.Message = text
	o.view.MessageKind = kind
}

func (o *Orchestrator) clearMessage() {
	o.setMessage("", model.MessageNone)
}

// View returns a copy of the current view state.
func (o *Orchestrator) View() model.ViewState {
	return o.view.Clone()
}

// Phase reports the coarse state derived from selection and in-flight work.
func (o *Orchestrator) Phase() model.Phase {
	switch {
	case !o.sel.Complete():
		return model.PhaseIdle
	case o.view.Loading:
		return model.PhaseLoading
	default:
		return model.PhaseReady
	}
}

// Selection returns the current selection.
func (o *Orchestrator) Selection() model.Selection {
	return o.sel
}

// Generation returns the current historical fetch generation.
func (o *Orchestrator) Generation() uint64 {
	return o.seriesGen
}

// ForecastGeneration returns the current forecast generation.
func (o *Orchestrator) ForecastGeneration() uint64 {
	return o.forecastGen
}

// ForecastYears returns the configured forecast horizon.
func (o *Orchestrator) ForecastYears() int {
	return o.forecastYears
}

// Reference returns a copy of the reference data loaded so far.
func (o *Orchestrator) Reference() Reference {
	ref := o.ref
	ref.Countries = append([]model.Country(nil), o.ref.Countries...)
	ref.Indicators = append([]model.Indicator(nil), o.ref.Indicators...)
	return ref
}
