package entities

// SearchScreenState is the orchestrator's state snapshot rendered by the UI.
// It lives for one search session and is only mutated through the session's
// operations; the UI never writes to it directly.
type SearchScreenState struct {
	SearchQuery   string
	IsLoading     bool
	SearchError   *SearchError
	SearchResults []SearchResultItem

	SelectedPriceRange  *PriceRange
	SelectedLocation    string
	CurrentUserLocation *Location

	LocationPermissionRequested     bool
	ShowLocationPermissionRationale bool

	IsAddingToCart   bool
	AddToCartMessage string
}

// Clone returns a copy safe to hand to observers while the session keeps
// mutating its own state.
func (s SearchScreenState) Clone() SearchScreenState {
	out := s
	if s.SearchResults != nil {
		out.SearchResults = make([]SearchResultItem, len(s.SearchResults))
		copy(out.SearchResults, s.SearchResults)
	}
	if s.SearchError != nil {
		e := *s.SearchError
		out.SearchError = &e
	}
	if s.SelectedPriceRange != nil {
		r := *s.SelectedPriceRange
		out.SelectedPriceRange = &r
	}
	if s.CurrentUserLocation != nil {
		l := *s.CurrentUserLocation
		out.CurrentUserLocation = &l
	}
	return out
}
