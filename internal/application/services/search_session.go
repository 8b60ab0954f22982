package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/providers"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/repositories"
	"github.com/NebiyouChanie/pharma-connect-go/internal/infrastructure/observability"
)

// SessionOptions configures a search session.
type SessionOptions struct {
	// DebounceInterval is the quiet period applied to typed queries.
	// Defaults to DefaultDebounceInterval.
	DebounceInterval time.Duration

	// OnStateChange, when set, receives a state snapshot after every
	// mutation. The snapshot is a copy; the receiver must not expect later
	// mutations to show through.
	OnStateChange func(entities.SearchScreenState)

	// Analytics, when set, receives one event per completed search.
	Analytics *SearchAnalyticsService

	// SessionID tags analytics events emitted by this session.
	SessionID string
}

// SearchSession orchestrates one search screen session. It owns the current
// query, filter selections, device location and raw results; it sequences
// debounced typing and explicit query changes into single-flight remote
// fetches, and pipes fetch results through distance annotation and filtering
// into the displayed list.
//
// All state mutations run under one mutex, so the session behaves as a single
// logical event stream even though fetches complete on their own goroutines.
// At most one fetch is live at a time: issuing a new fetch cancels the
// previous one, and a superseded fetch's eventual completion is a no-op.
type SearchSession struct {
	searchRepo repositories.SearchRepository
	cartRepo   repositories.CartRepository

	mu     sync.Mutex
	state  entities.SearchScreenState
	raw    []entities.SearchResultItem
	closed bool

	fetchCancel context.CancelFunc

	debouncer *QueryDebouncer
	onChange  func(entities.SearchScreenState)
	analytics *SearchAnalyticsService
	sessionID string
	tracer    trace.Tracer

	wg sync.WaitGroup
}

// NewSearchSession creates a session over the remote search and cart
// collaborators.
func NewSearchSession(searchRepo repositories.SearchRepository, cartRepo repositories.CartRepository, opts SessionOptions) *SearchSession {
	s := &SearchSession{
		searchRepo: searchRepo,
		cartRepo:   cartRepo,
		onChange:   opts.OnStateChange,
		analytics:  opts.Analytics,
		sessionID:  opts.SessionID,
		tracer:     otel.Tracer("search-session"),
	}
	s.debouncer = NewQueryDebouncer(opts.DebounceInterval, s.onDebouncedQuery)
	return s
}

// State returns a snapshot of the current screen state.
func (s *SearchSession) State() entities.SearchScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// OnQueryChanged records a keystroke. The displayed query updates immediately
// so the text field never lags; the fetch itself waits on the debouncer.
// Blank input clears results right away and bypasses the timer entirely.
func (s *SearchSession) OnQueryChanged(query string) {
	s.mu.Lock()
	s.state.SearchQuery = query
	if isBlank(query) {
		s.clearResultsLocked()
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	if isBlank(query) {
		return
	}
	s.debouncer.Push(query)
}

// onDebouncedQuery consumes the debouncer's trailing emission.
func (s *SearchSession) onDebouncedQuery(query string) {
	s.mu.Lock()
	active := s.state.SearchQuery
	s.mu.Unlock()

	// The pending value may have been superseded by an explicit query change
	// or cleared input while the timer ran; drop it silently.
	if query != active {
		return
	}

	s.performSearch(query)
}

// SetQuery installs a query arriving from outside typing, such as a deep link
// or a suggestion tap. Any in-flight or pending fetch is superseded, results
// and error reset, and if the query is non-blank a fetch is issued
// immediately without debouncing.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	if s.fetchCancel != nil {
		s.fetchCancel()
		s.fetchCancel = nil
	}
	s.raw = nil
	s.state.SearchQuery = query
	s.state.SearchResults = nil
	s.state.SearchError = nil
	s.state.IsLoading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	if !isBlank(query) {
		s.performSearch(query)
	}
}

// TriggerSearchNow re-issues a fetch for the current query, superseding any
// prior fetch. Blank queries are ignored.
func (s *SearchSession) TriggerSearchNow() {
	s.mu.Lock()
	query := s.state.SearchQuery
	s.mu.Unlock()

	if isBlank(query) {
		return
	}
	s.performSearch(query)
}

// performSearch starts a single-flight fetch for query. The query is
// re-checked against the active one both here and when the result arrives, so
// a debounced call racing a newer explicit call can never write state.
func (s *SearchSession) performSearch(query string) {
	s.mu.Lock()
	if s.closed || query != s.state.SearchQuery {
		// The session shut down, or a newer query was installed between
		// scheduling and execution.
		s.mu.Unlock()
		return
	}
	if s.fetchCancel != nil {
		s.fetchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.fetchCancel = cancel
	s.state.IsLoading = true
	s.state.SearchError = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runFetch(ctx, query)
	}()
}

func (s *SearchSession) runFetch(ctx context.Context, query string) {
	ctx, span := s.tracer.Start(ctx, "search.fetch",
		trace.WithAttributes(attribute.String("search.query", query)))
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	start := time.Now()
	results, err := s.searchRepo.SearchMedicine(ctx, query)

	s.mu.Lock()
	if ctx.Err() != nil || query != s.state.SearchQuery {
		// Superseded mid-flight; the newer fetch owns the state now.
		s.mu.Unlock()
		logger.Debug().Str("query", query).Msg("discarding stale search result")
		return
	}

	switch {
	case err != nil:
		s.raw = nil
		s.state.SearchResults = nil
		s.state.SearchError = entities.NewTransportError(err.Error())
	case len(results) == 0:
		s.raw = nil
		s.state.SearchResults = nil
		s.state.SearchError = entities.NewNotFoundError(query)
	default:
		s.raw = results
		s.recomputeResultsLocked()
	}
	// The fetch ended one way or another; never leave the spinner on.
	s.state.IsLoading = false
	userLoc := s.state.CurrentUserLocation
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("medicine search failed")
		return
	}

	event := &entities.SearchEvent{
		Query:       query,
		ResultCount: len(results),
		LatencyMs:   int(time.Since(start).Milliseconds()),
		SessionID:   s.sessionID,
	}
	if userLoc != nil {
		event.UserLatitude = userLoc.Latitude
		event.UserLongitude = userLoc.Longitude
	}
	s.analytics.TrackSearch(ctx, event)
}

// OnDeviceLocationAvailable stores the device position and re-annotates the
// already fetched results. No new fetch is issued.
func (s *SearchSession) OnDeviceLocationAvailable(lat, lon float64) {
	s.mu.Lock()
	s.state.CurrentUserLocation = &entities.Location{Latitude: lat, Longitude: lon}
	s.recomputeResultsLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// UseLocationProvider asks the device location collaborator for the last
// known position and feeds it into the session. An unknown position is not an
// error; distances simply stay unset.
func (s *SearchSession) UseLocationProvider(ctx context.Context, provider providers.LocationProvider) error {
	loc, err := provider.LastKnownLocation(ctx)
	if err != nil {
		return err
	}
	if loc == nil {
		return nil
	}
	s.OnDeviceLocationAvailable(loc.Latitude, loc.Longitude)
	return nil
}

// OnLocationPermissionGranted records that the user granted the location
// permission; the caller is expected to fetch the position and call
// OnDeviceLocationAvailable.
func (s *SearchSession) OnLocationPermissionGranted() {
	s.mu.Lock()
	s.state.LocationPermissionRequested = true
	s.state.ShowLocationPermissionRationale = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// OnLocationPermissionDenied records a denial and whether a rationale should
// be shown before asking again.
func (s *SearchSession) OnLocationPermissionDenied(shouldShowRationale bool) {
	s.mu.Lock()
	s.state.LocationPermissionRequested = true
	s.state.ShowLocationPermissionRationale = shouldShowRationale
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// RationaleShown clears the rationale flag once the UI has displayed it.
func (s *SearchSession) RationaleShown() {
	s.mu.Lock()
	s.state.ShowLocationPermissionRationale = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// OnPriceRangeSelected stores the price filter and re-runs the pipeline over
// the existing raw results. The Any-Price sentinel clears the filter.
func (s *SearchSession) OnPriceRangeSelected(priceRange *entities.PriceRange) {
	s.mu.Lock()
	if priceRange != nil && priceRange.IsAny() {
		priceRange = nil
	}
	s.state.SelectedPriceRange = priceRange
	s.recomputeResultsLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// OnLocationFilterSelected stores the location substring filter and re-runs
// the pipeline over the existing raw results. The Any-Location sentinel
// clears the filter.
func (s *SearchSession) OnLocationFilterSelected(location string) {
	s.mu.Lock()
	if location == entities.AnyLocation {
		location = ""
	}
	s.state.SelectedLocation = location
	s.recomputeResultsLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// AddToCart saves an offer to the user's cart. The call is independent of the
// search state machine; only the IsAddingToCart flag and the transient
// message move.
func (s *SearchSession) AddToCart(inventoryID string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.IsAddingToCart = true
	s.state.AddToCartMessage = ""
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		confirmation, err := s.cartRepo.AddToCart(ctx, inventoryID)

		s.mu.Lock()
		s.state.IsAddingToCart = false
		switch {
		case err != nil:
			s.state.AddToCartMessage = err.Error()
		case confirmation != nil && confirmation.UserID != "":
			s.state.AddToCartMessage = "Added to cart successfully!"
		default:
			s.state.AddToCartMessage = "Added to cart!"
		}
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snapshot)
	}()
}

// ClearAddToCartMessage clears the transient cart message once rendered.
func (s *SearchSession) ClearAddToCartMessage() {
	s.mu.Lock()
	s.state.AddToCartMessage = ""
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// Close cancels any pending debounce or in-flight fetch and waits for
// background work to finish. The closed flag also stops a debounce emission
// already executing from starting a fetch after the wait begins.
func (s *SearchSession) Close() {
	s.debouncer.Stop()
	s.mu.Lock()
	s.closed = true
	if s.fetchCancel != nil {
		s.fetchCancel()
		s.fetchCancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// recomputeResultsLocked maps the raw results through distance annotation and
// the active filters into the displayed list. Results stay in server order
// after annotation; no distance sort is applied. Fetch outcome bookkeeping
// (the loading flag, not-found and transport errors) belongs to runFetch
// alone; a location or filter change landing mid-fetch must not touch it.
func (s *SearchSession) recomputeResultsLocked() {
	loc := s.state.CurrentUserLocation

	processed := make([]entities.SearchResultItem, len(s.raw))
	for i, item := range s.raw {
		item.DistanceKm = nil
		item.TimeMinutes = nil
		if loc != nil && item.HasCoordinates() {
			d := DistanceKm(loc.Latitude, loc.Longitude, *item.Latitude, *item.Longitude)
			item.DistanceKm = &d
		}
		processed[i] = item
	}

	s.state.SearchResults = FilterResults(processed, s.state.SelectedPriceRange, s.state.SelectedLocation)
}

func (s *SearchSession) clearResultsLocked() {
	s.raw = nil
	s.state.SearchResults = nil
	s.state.SearchError = nil
	s.state.IsLoading = false
}

func (s *SearchSession) snapshotLocked() entities.SearchScreenState {
	return s.state.Clone()
}

func (s *SearchSession) notify(snapshot entities.SearchScreenState) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
