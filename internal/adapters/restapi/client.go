package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
	apperrors "github.com/NebiyouChanie/pharma-connect-go/pkg/errors"
)

// TransportFailureMessage is the text surfaced when the backend cannot be
// reached at all. The UI renders it verbatim, so it stays user-readable.
const TransportFailureMessage = "Couldn't reach server. Check your internet connection."

// Client talks to the Pharma Connect backend, implementing the search and
// cart repositories over the backend's ApiResponse envelope
// ({success, message, data, count}).
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAuthToken attaches a bearer token to every request. The token is fixed
// per client, so an authenticated session is an explicit client instance
// rather than ambient global state.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// NewClient creates a backend API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	MedicineName string `json:"medicineName"`
}

// searchResultPayload mirrors the server's offer shape. Distance and time are
// deliberately absent: they are client-derived and never trusted from the
// wire.
type searchResultPayload struct {
	PharmacyName string   `json:"pharmacyName"`
	Address      string   `json:"address"`
	Photo        *string  `json:"photo"`
	Price        float64  `json:"price"`
	Quantity     int      `json:"quantity"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PharmacyID   string   `json:"pharmacyId"`
	InventoryID  string   `json:"inventoryId"`
}

func (p searchResultPayload) toEntity() entities.SearchResultItem {
	item := entities.SearchResultItem{
		PharmacyName: p.PharmacyName,
		Address:      p.Address,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		PharmacyID:   p.PharmacyID,
		InventoryID:  p.InventoryID,
	}
	if p.Photo != nil {
		item.Photo = *p.Photo
	}
	return item
}

type searchEnvelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    []searchResultPayload `json:"data,omitempty"`
	Count   int                   `json:"count,omitempty"`
}

type addToCartRequest struct {
	InventoryID string `json:"inventoryId"`
}

type cartEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *struct {
		UserID string `json:"userId"`
	} `json:"data,omitempty"`
}

// SearchMedicine issues the remote search call for a medicine name. An empty
// slice with a nil error is a successful zero-result search.
func (c *Client) SearchMedicine(ctx context.Context, medicineName string) ([]entities.SearchResultItem, error) {
	var envelope searchEnvelope
	if err := c.postJSON(ctx, "/api/v1/search", searchRequest{MedicineName: medicineName}, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, apperrors.NewExternalError(messageOrDefault(envelope.Message, "Search failed"), nil)
	}

	items := make([]entities.SearchResultItem, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		items = append(items, payload.toEntity())
	}
	return items, nil
}

// AddToCart saves an inventory offer to the user's cart.
func (c *Client) AddToCart(ctx context.Context, inventoryID string) (*entities.CartConfirmation, error) {
	if strings.TrimSpace(inventoryID) == "" {
		return nil, apperrors.NewValidationError("inventory id is required")
	}

	var envelope cartEnvelope
	if err := c.postJSON(ctx, "/api/v1/cart", addToCartRequest{InventoryID: inventoryID}, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, apperrors.NewExternalError(messageOrDefault(envelope.Message, "Add to cart failed"), nil)
	}

	confirmation := &entities.CartConfirmation{}
	if envelope.Data != nil {
		confirmation.UserID = envelope.Data.UserID
	}
	return confirmation, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternalError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.NewExternalError(TransportFailureMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(errorMessageFromBody(resp), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("invalid response from server", err)
	}
	return nil
}

// errorMessageFromBody extracts the backend's envelope message from a non-2xx
// response, falling back to the HTTP status when the body is not parseable.
func errorMessageFromBody(resp *http.Response) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && strings.TrimSpace(envelope.Message) != "" {
		return envelope.Message
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}

func messageOrDefault(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}
