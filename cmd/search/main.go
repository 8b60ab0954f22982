package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/events"
	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/geolocation"
	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/restapi"
	"github.com/NebiyouChanie/pharma-connect-go/internal/application/services"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
	"github.com/NebiyouChanie/pharma-connect-go/internal/infrastructure/clients/redis"
	"github.com/NebiyouChanie/pharma-connect-go/internal/infrastructure/observability"
	"github.com/NebiyouChanie/pharma-connect-go/pkg/config"
)

// settleTimeout bounds how long we wait for the search pipeline to finish.
const settleTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var (
		query      = flag.String("query", "", "medicine name to search for")
		priceLabel = flag.String("price", "Any Price", "price bracket label (e.g. \"Br 0 - 50\")")
		location   = flag.String("location", entities.AnyLocation, "location filter (e.g. \"Bole\")")
		baseURL    = flag.String("base-url", cfg.RemoteAPI.BaseURL, "backend base URL")
		token      = flag.String("token", "", "bearer token for authenticated calls")
		cartID     = flag.String("add-to-cart", "", "inventory id to save to the cart after searching")
	)
	flag.Parse()

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.ComponentLogger("search-cli")

	if strings.TrimSpace(*query) == "" {
		fmt.Fprintln(os.Stderr, "usage: search -query <medicine name> [-price <label>] [-location <name>]")
		os.Exit(2)
	}

	priceRange, ok := entities.PriceRangeForLabel(*priceLabel)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown price bracket %q; options:\n", *priceLabel)
		for _, opt := range entities.PriceRangeOptions {
			fmt.Fprintf(os.Stderr, "  %s\n", opt.Label)
		}
		os.Exit(2)
	}

	clientOpts := []restapi.Option{restapi.WithTimeout(cfg.RemoteAPI.Timeout)}
	if *token != "" {
		clientOpts = append(clientOpts, restapi.WithAuthToken(*token))
	}
	client := restapi.NewClient(*baseURL, clientOpts...)

	// Analytics rides on Redis when available; the search itself never
	// depends on it.
	var analytics *services.SearchAnalyticsService
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Redis client, analytics disabled")
		} else {
			defer redisClient.Close()
			analytics = services.NewSearchAnalyticsService(events.NewRedisEventBus(redisClient))
		}
	}

	states := make(chan entities.SearchScreenState, 64)
	session := services.NewSearchSession(client, client, services.SessionOptions{
		DebounceInterval: cfg.Search.DebounceInterval,
		Analytics:        analytics,
		SessionID:        uuid.NewString(),
		OnStateChange: func(state entities.SearchScreenState) {
			select {
			case states <- state:
			default:
			}
		},
	})
	defer session.Close()

	if err := session.UseLocationProvider(context.Background(), geolocation.NewAddisProvider()); err != nil {
		logger.Warn().Err(err).Msg("device location unavailable")
	}
	session.OnPriceRangeSelected(&priceRange)
	session.OnLocationFilterSelected(*location)

	// SetQuery fetches immediately; typing-style debounce is for interactive
	// input, not a one-shot CLI.
	session.SetQuery(*query)

	state, err := waitForResults(states)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search timed out after %s\n", settleTimeout)
		os.Exit(1)
	}

	printState(state)

	if *cartID != "" {
		session.AddToCart(*cartID)
		state, err = waitForCart(states)
		if err != nil {
			fmt.Fprintln(os.Stderr, "add to cart timed out")
			os.Exit(1)
		}
		fmt.Println(state.AddToCartMessage)
	}
}

// waitForResults drains state snapshots until the fetch has completed. A
// completed fetch always leaves either a result list (possibly emptied by
// filters) or an error behind.
func waitForResults(states <-chan entities.SearchScreenState) (entities.SearchScreenState, error) {
	deadline := time.After(settleTimeout)
	for {
		select {
		case state := <-states:
			if state.IsLoading {
				continue
			}
			if state.SearchResults != nil || state.SearchError != nil {
				return state, nil
			}
		case <-deadline:
			return entities.SearchScreenState{}, fmt.Errorf("timed out waiting for results")
		}
	}
}

func waitForCart(states <-chan entities.SearchScreenState) (entities.SearchScreenState, error) {
	deadline := time.After(settleTimeout)
	for {
		select {
		case state := <-states:
			if !state.IsAddingToCart && state.AddToCartMessage != "" {
				return state, nil
			}
		case <-deadline:
			return entities.SearchScreenState{}, fmt.Errorf("timed out waiting for cart confirmation")
		}
	}
}

func printState(state entities.SearchScreenState) {
	if state.SearchError != nil {
		fmt.Println(state.SearchError.Message)
		return
	}

	fmt.Printf("%d result(s) for %q\n\n", len(state.SearchResults), state.SearchQuery)
	for _, item := range state.SearchResults {
		fmt.Printf("%s\n", item.PharmacyName)
		fmt.Printf("  %s\n", item.Address)
		fmt.Printf("  Br %.2f, %d in stock\n", item.Price, item.Quantity)
		if item.DistanceKm != nil {
			fmt.Printf("  %.1f km away\n", *item.DistanceKm)
		}
		fmt.Printf("  inventory: %s\n", item.InventoryID)
		fmt.Println()
	}
}
