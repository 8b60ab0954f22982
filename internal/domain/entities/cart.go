package entities

// CartConfirmation is the payload returned by a successful add-to-cart call.
// UserID is only used for message formatting.
type CartConfirmation struct {
	UserID string `json:"userId"`
}
