package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// stubSearchRepo answers immediately from a canned result set and records
// every query it sees.
type stubSearchRepo struct {
	mu      sync.Mutex
	results map[string][]entities.SearchResultItem
	err     error
	queries []string
}

func (r *stubSearchRepo) SearchMedicine(ctx context.Context, medicineName string) ([]entities.SearchResultItem, error) {
	r.mu.Lock()
	r.queries = append(r.queries, medicineName)
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return r.results[medicineName], nil
}

func (r *stubSearchRepo) recordedQueries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

// scriptedSearchRepo hands each incoming call to the test, which answers on
// the call's respond channel. This makes fetch interleavings deterministic.
type scriptedSearchRepo struct {
	calls chan searchCall
}

type searchCall struct {
	query   string
	ctx     context.Context
	respond chan searchResponse
}

type searchResponse struct {
	items []entities.SearchResultItem
	err   error
}

func newScriptedSearchRepo() *scriptedSearchRepo {
	return &scriptedSearchRepo{calls: make(chan searchCall, 10)}
}

func (r *scriptedSearchRepo) SearchMedicine(ctx context.Context, medicineName string) ([]entities.SearchResultItem, error) {
	call := searchCall{query: medicineName, ctx: ctx, respond: make(chan searchResponse, 1)}
	r.calls <- call

	select {
	case resp := <-call.respond:
		return resp.items, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *scriptedSearchRepo) nextCall(t *testing.T) searchCall {
	t.Helper()
	select {
	case call := <-r.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a search call")
		return searchCall{}
	}
}

type stubCartRepo struct {
	confirmation *entities.CartConfirmation
	err          error

	mu  sync.Mutex
	ids []string
}

func (r *stubCartRepo) AddToCart(ctx context.Context, inventoryID string) (*entities.CartConfirmation, error) {
	r.mu.Lock()
	r.ids = append(r.ids, inventoryID)
	r.mu.Unlock()
	return r.confirmation, r.err
}

func bolePharmacy() entities.SearchResultItem {
	lat, lon := 8.9936, 38.7870
	return entities.SearchResultItem{
		PharmacyID:   "ph-bole",
		InventoryID:  "inv-bole",
		PharmacyName: "Bole Pharmacy",
		Address:      "Bole Road, Addis Ababa",
		Price:        30,
		Quantity:     120,
		Latitude:     &lat,
		Longitude:    &lon,
	}
}

func cmcPharmacy() entities.SearchResultItem {
	lat, lon := 9.0227, 38.8300
	return entities.SearchResultItem{
		PharmacyID:   "ph-cmc",
		InventoryID:  "inv-cmc",
		PharmacyName: "CMC Community Pharmacy",
		Address:      "CMC area, Addis Ababa",
		Price:        80,
		Quantity:     40,
		Latitude:     &lat,
		Longitude:    &lon,
	}
}

func waitForState(t *testing.T, s *SearchSession, predicate func(entities.SearchScreenState) bool) entities.SearchScreenState {
	t.Helper()
	require.Eventually(t, func() bool {
		return predicate(s.State())
	}, 2*time.Second, 5*time.Millisecond)
	return s.State()
}

func TestSession_TypingBurstFetchesOnlyTrailingQuery(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"asp": {bolePharmacy()},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: 40 * time.Millisecond})
	defer session.Close()

	session.OnQueryChanged("a")
	time.Sleep(10 * time.Millisecond)
	session.OnQueryChanged("ap")
	time.Sleep(10 * time.Millisecond)
	session.OnQueryChanged("asp")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})
	assert.Equal(t, "asp", state.SearchQuery)
	assert.False(t, state.IsLoading)
	assert.Nil(t, state.SearchError)

	// Give any stray timers a chance to fire before counting.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"asp"}, repo.recordedQueries())
}

func TestSession_QueryUpdatesImmediatelyWhileFetchWaits(t *testing.T) {
	repo := &stubSearchRepo{}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.OnQueryChanged("pan")
	assert.Equal(t, "pan", session.State().SearchQuery)
	assert.Empty(t, repo.recordedQueries())
}

func TestSession_BlankQueryClearsWithoutFetching(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy()},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: 20 * time.Millisecond})
	defer session.Close()

	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})

	session.OnQueryChanged("   ")

	state := session.State()
	assert.Empty(t, state.SearchResults)
	assert.Nil(t, state.SearchError)
	assert.False(t, state.IsLoading)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"Panadol"}, repo.recordedQueries())
}

func TestSession_SetQuerySkipsDebounce(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy()},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})
	assert.Equal(t, "Bole Pharmacy", state.SearchResults[0].PharmacyName)
}

func TestSession_SupersededFetchNeverWritesState(t *testing.T) {
	repo := newScriptedSearchRepo()
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("first")
	firstCall := repo.nextCall(t)

	session.SetQuery("second")
	secondCall := repo.nextCall(t)

	// The older fetch must have been cancelled the moment the newer query
	// arrived.
	select {
	case <-firstCall.ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch context was never cancelled")
	}

	secondCall.respond <- searchResponse{items: []entities.SearchResultItem{cmcPharmacy()}}
	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})
	assert.Equal(t, "CMC Community Pharmacy", state.SearchResults[0].PharmacyName)

	// A late answer from the dead fetch changes nothing.
	firstCall.respond <- searchResponse{items: []entities.SearchResultItem{bolePharmacy()}}
	time.Sleep(50 * time.Millisecond)

	state = session.State()
	require.Len(t, state.SearchResults, 1)
	assert.Equal(t, "CMC Community Pharmacy", state.SearchResults[0].PharmacyName)
	assert.Nil(t, state.SearchError)
}

func TestSession_LoadingFlagTracksFetchLifetime(t *testing.T) {
	repo := newScriptedSearchRepo()
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")
	call := repo.nextCall(t)
	assert.True(t, session.State().IsLoading)

	call.respond <- searchResponse{items: []entities.SearchResultItem{bolePharmacy()}}
	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return !s.IsLoading
	})
	assert.Len(t, state.SearchResults, 1)
}

func TestSession_FetchErrorBecomesTransportError(t *testing.T) {
	repo := &stubSearchRepo{err: errors.New("Couldn't reach server. Check your internet connection.")}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return s.SearchError != nil
	})
	assert.Equal(t, entities.SearchErrorTransport, state.SearchError.Kind)
	assert.Equal(t, "Couldn't reach server. Check your internet connection.", state.SearchError.Message)
	assert.Empty(t, state.SearchResults)
	assert.False(t, state.IsLoading)
}

func TestSession_EmptyResultIsNotFound(t *testing.T) {
	repo := &stubSearchRepo{}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Zzzdrug")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return s.SearchError != nil
	})
	assert.Equal(t, entities.SearchErrorNotFound, state.SearchError.Kind)
	assert.Equal(t, "No medicine found for: 'Zzzdrug'", state.SearchError.Message)
}

func TestSession_DistanceAnnotationFollowsDeviceLocation(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy(), cmcPharmacy()},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")
	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 2
	})

	// No device position yet, so no distances.
	for _, item := range state.SearchResults {
		assert.Nil(t, item.DistanceKm)
	}

	session.OnDeviceLocationAvailable(9.0108, 38.7613)
	state = session.State()
	require.Len(t, state.SearchResults, 2)

	wantBole := DistanceKm(9.0108, 38.7613, 8.9936, 38.7870)
	wantCMC := DistanceKm(9.0108, 38.7613, 9.0227, 38.8300)
	require.NotNil(t, state.SearchResults[0].DistanceKm)
	require.NotNil(t, state.SearchResults[1].DistanceKm)
	assert.InDelta(t, wantBole, *state.SearchResults[0].DistanceKm, 1e-9)
	assert.InDelta(t, wantCMC, *state.SearchResults[1].DistanceKm, 1e-9)

	// Server order survives annotation even when the nearer item is not
	// first.
	assert.Equal(t, "Bole Pharmacy", state.SearchResults[0].PharmacyName)
	assert.Equal(t, "CMC Community Pharmacy", state.SearchResults[1].PharmacyName)
}

func TestSession_ItemWithoutCoordinatesStaysUnannotated(t *testing.T) {
	noCoords := bolePharmacy()
	noCoords.Latitude = nil
	noCoords.Longitude = nil

	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {noCoords},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.OnDeviceLocationAvailable(9.0108, 38.7613)
	session.SetQuery("Panadol")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})
	assert.Nil(t, state.SearchResults[0].DistanceKm)
}

func TestSession_FiltersReapplyWithoutRefetching(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy(), cmcPharmacy()},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 2
	})

	upperBound := 50.0
	session.OnPriceRangeSelected(&entities.PriceRange{Lower: 0, Upper: &upperBound})
	state := session.State()
	require.Len(t, state.SearchResults, 1)
	assert.Equal(t, "Bole Pharmacy", state.SearchResults[0].PharmacyName)

	session.OnLocationFilterSelected("CMC")
	state = session.State()
	assert.Empty(t, state.SearchResults)
	// Filters emptied the list, but the medicine was found.
	assert.Nil(t, state.SearchError)

	// Sentinels clear both filters.
	session.OnPriceRangeSelected(&entities.PriceRange{})
	session.OnLocationFilterSelected(entities.AnyLocation)
	state = session.State()
	assert.Len(t, state.SearchResults, 2)

	assert.Equal(t, []string{"Panadol"}, repo.recordedQueries())
}

func TestSession_NearbyCheapOfferSurvivesPriceFilter(t *testing.T) {
	// One offer a kilometer away at Br 30 with coordinates, one at Br 80
	// without; the (0, 50] bracket must leave exactly the annotated cheap one.
	nearLat, nearLon := 9.009, 38.7
	near := entities.SearchResultItem{
		InventoryID:  "inv-near",
		PharmacyName: "Nearby Pharmacy",
		Address:      "Bole Road, Addis Ababa",
		Price:        30,
		Latitude:     &nearLat,
		Longitude:    &nearLon,
	}
	far := entities.SearchResultItem{
		InventoryID:  "inv-far",
		PharmacyName: "Unlocated Pharmacy",
		Address:      "CMC area, Addis Ababa",
		Price:        80,
	}

	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {near, far},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.OnDeviceLocationAvailable(9.0, 38.7)
	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 2
	})

	upperBound := 50.0
	session.OnPriceRangeSelected(&entities.PriceRange{Lower: 0, Upper: &upperBound})

	state := session.State()
	require.Len(t, state.SearchResults, 1)
	assert.Equal(t, "inv-near", state.SearchResults[0].InventoryID)
	require.NotNil(t, state.SearchResults[0].DistanceKm)
	assert.InDelta(t, 1.0, *state.SearchResults[0].DistanceKm, 0.01)
}

func TestSession_TriggerSearchNowRefetchesCurrentQuery(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy()},
	}}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})

	session.TriggerSearchNow()
	require.Eventually(t, func() bool {
		return len(repo.recordedQueries()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	// Blank queries are ignored.
	session.OnQueryChanged("")
	session.TriggerSearchNow()
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, repo.recordedQueries(), 2)
}

func TestSession_AddToCartAuthenticated(t *testing.T) {
	cart := &stubCartRepo{confirmation: &entities.CartConfirmation{UserID: "user-42"}}
	session := NewSearchSession(&stubSearchRepo{}, cart, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.AddToCart("inv-bole")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return !s.IsAddingToCart && s.AddToCartMessage != ""
	})
	assert.Equal(t, "Added to cart successfully!", state.AddToCartMessage)
	assert.Equal(t, []string{"inv-bole"}, cart.ids)

	session.ClearAddToCartMessage()
	assert.Empty(t, session.State().AddToCartMessage)
}

func TestSession_AddToCartAnonymous(t *testing.T) {
	cart := &stubCartRepo{confirmation: &entities.CartConfirmation{}}
	session := NewSearchSession(&stubSearchRepo{}, cart, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.AddToCart("inv-bole")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return !s.IsAddingToCart && s.AddToCartMessage != ""
	})
	assert.Equal(t, "Added to cart!", state.AddToCartMessage)
}

func TestSession_AddToCartFailureSurfacesMessage(t *testing.T) {
	cart := &stubCartRepo{err: errors.New("inventory item not found")}
	session := NewSearchSession(&stubSearchRepo{}, cart, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.AddToCart("missing")

	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return !s.IsAddingToCart && s.AddToCartMessage != ""
	})
	assert.Equal(t, "inventory item not found", state.AddToCartMessage)
}

func TestSession_AddToCartDoesNotTouchSearchState(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy()},
	}}
	cart := &stubCartRepo{confirmation: &entities.CartConfirmation{}}
	session := NewSearchSession(repo, cart, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})

	session.AddToCart("inv-bole")
	state := waitForState(t, session, func(s entities.SearchScreenState) bool {
		return !s.IsAddingToCart && s.AddToCartMessage != ""
	})
	assert.Equal(t, "Panadol", state.SearchQuery)
	assert.Len(t, state.SearchResults, 1)
	assert.Nil(t, state.SearchError)
}

func TestSession_LocationUpdateMidFetchKeepsSpinnerAndNoError(t *testing.T) {
	repo := newScriptedSearchRepo()
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.SetQuery("Panadol")
	call := repo.nextCall(t)

	// The device position arrives while the fetch is still outstanding. Only
	// the stored location may change; the fetch outcome is not in yet.
	session.OnDeviceLocationAvailable(9.0108, 38.7613)

	state := session.State()
	assert.True(t, state.IsLoading)
	assert.Nil(t, state.SearchError)
	assert.Empty(t, state.SearchResults)

	call.respond <- searchResponse{items: []entities.SearchResultItem{bolePharmacy()}}
	state = waitForState(t, session, func(s entities.SearchScreenState) bool {
		return !s.IsLoading
	})
	require.Len(t, state.SearchResults, 1)
	assert.Nil(t, state.SearchError)
	require.NotNil(t, state.SearchResults[0].DistanceKm)
}

func TestSession_FilterChangeWhileDebouncePendingShowsNoError(t *testing.T) {
	repo := &stubSearchRepo{}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.OnQueryChanged("asp")

	upperBound := 50.0
	session.OnPriceRangeSelected(&entities.PriceRange{Lower: 0, Upper: &upperBound})
	session.OnLocationFilterSelected("Bole")

	// No fetch has run yet, so there is nothing to be "not found".
	state := session.State()
	assert.Nil(t, state.SearchError)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.SearchResults)
	assert.Empty(t, repo.recordedQueries())
}

func TestSession_SuccessfulSearchEmitsAnalyticsEvent(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy()},
	}}
	bus := &fakeEventBus{}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{
		DebounceInterval: time.Hour,
		Analytics:        NewSearchAnalyticsService(bus),
		SessionID:        "session-1",
	})
	defer session.Close()

	session.OnDeviceLocationAvailable(9.0108, 38.7613)
	session.SetQuery("Panadol")

	require.Eventually(t, func() bool {
		return len(bus.events()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	event := bus.events()[0].event
	assert.Equal(t, "Panadol", event.Query)
	assert.Equal(t, 1, event.ResultCount)
	assert.Equal(t, "session-1", event.SessionID)
	assert.InDelta(t, 9.0108, event.UserLatitude, 1e-9)
}

func TestSession_FailedSearchEmitsNoAnalyticsEvent(t *testing.T) {
	repo := &stubSearchRepo{err: errors.New("boom")}
	bus := &fakeEventBus{}
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{
		DebounceInterval: time.Hour,
		Analytics:        NewSearchAnalyticsService(bus),
	})
	defer session.Close()

	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return s.SearchError != nil
	})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, bus.events())
}

func TestSession_LocationPermissionFlow(t *testing.T) {
	session := NewSearchSession(&stubSearchRepo{}, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Hour})
	defer session.Close()

	session.OnLocationPermissionDenied(true)
	state := session.State()
	assert.True(t, state.LocationPermissionRequested)
	assert.True(t, state.ShowLocationPermissionRationale)

	session.RationaleShown()
	assert.False(t, session.State().ShowLocationPermissionRationale)

	session.OnLocationPermissionGranted()
	state = session.State()
	assert.True(t, state.LocationPermissionRequested)
	assert.False(t, state.ShowLocationPermissionRationale)
}

func TestSession_BlankInputBypassesDebouncer(t *testing.T) {
	repo := &stubSearchRepo{}

	var mu sync.Mutex
	var notifications int
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{
		DebounceInterval: 20 * time.Millisecond,
		OnStateChange: func(entities.SearchScreenState) {
			mu.Lock()
			notifications++
			mu.Unlock()
		},
	})
	defer session.Close()

	session.OnQueryChanged("   ")

	mu.Lock()
	afterClear := notifications
	mu.Unlock()
	assert.Equal(t, 1, afterClear)

	// No timer was armed, so nothing fires after the quiet period.
	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, afterClear, notifications)
	mu.Unlock()
	assert.Empty(t, repo.recordedQueries())
}

func TestSession_CloseRacesPendingDebounce(t *testing.T) {
	// A debounce emission executing concurrently with Close must not start a
	// fetch after the shutdown wait has begun.
	for i := 0; i < 50; i++ {
		repo := &stubSearchRepo{}
		session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{DebounceInterval: time.Millisecond})
		session.OnQueryChanged("panadol")
		session.Close()
	}
}

func TestSession_NoWorkAfterClose(t *testing.T) {
	repo := &stubSearchRepo{}
	cart := &stubCartRepo{confirmation: &entities.CartConfirmation{}}
	session := NewSearchSession(repo, cart, SessionOptions{DebounceInterval: time.Hour})
	session.Close()

	session.SetQuery("Panadol")
	session.TriggerSearchNow()
	session.AddToCart("inv-bole")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, repo.recordedQueries())
	assert.Empty(t, cart.ids)
	assert.False(t, session.State().IsLoading)
	assert.False(t, session.State().IsAddingToCart)
}

func TestSession_StateChangeObserverGetsSnapshots(t *testing.T) {
	repo := &stubSearchRepo{results: map[string][]entities.SearchResultItem{
		"Panadol": {bolePharmacy()},
	}}

	var mu sync.Mutex
	var snapshots []entities.SearchScreenState
	session := NewSearchSession(repo, &stubCartRepo{}, SessionOptions{
		DebounceInterval: time.Hour,
		OnStateChange: func(state entities.SearchScreenState) {
			mu.Lock()
			snapshots = append(snapshots, state)
			mu.Unlock()
		},
	})
	defer session.Close()

	session.SetQuery("Panadol")
	waitForState(t, session, func(s entities.SearchScreenState) bool {
		return len(s.SearchResults) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snapshots)

	var sawLoading bool
	for _, snap := range snapshots {
		if snap.IsLoading {
			sawLoading = true
		}
	}
	assert.True(t, sawLoading, "observer should see the loading state")

	final := snapshots[len(snapshots)-1]
	require.Len(t, final.SearchResults, 1)

	// Snapshots are copies; mutating one never reaches the session.
	final.SearchResults[0].PharmacyName = "mutated"
	assert.Equal(t, "Bole Pharmacy", session.State().SearchResults[0].PharmacyName)
}
