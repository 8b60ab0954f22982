package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/providers"
	"github.com/NebiyouChanie/pharma-connect-go/pkg/retry"
)

// SearchAnalyticsService publishes one event per completed search so
// zero-result queries can be inspected downstream.
type SearchAnalyticsService struct {
	bus providers.EventBus
}

func NewSearchAnalyticsService(bus providers.EventBus) *SearchAnalyticsService {
	return &SearchAnalyticsService{bus: bus}
}

// TrackSearch publishes the event in the background so the search path never
// blocks on analytics. Safe to call on a nil service.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	if s == nil || s.bus == nil || event == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	go func() {
		// Use a fresh context since the request context might be cancelled
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := retry.Config{
			MaxAttempts:     3,
			InitialDelay:    100 * time.Millisecond,
			MaxDelay:        time.Second,
			BackoffFactor:   2.0,
			MaxTotalTimeout: 5 * time.Second,
		}
		err := retry.Do(bgCtx, cfg, func() error {
			return s.bus.Publish(bgCtx, providers.EventChannelSearches, event)
		})
		if err != nil {
			log.Printf("Warning: failed to publish search event: %v", err)
		}
	}()
}
