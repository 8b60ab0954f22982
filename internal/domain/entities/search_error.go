package entities

import "fmt"

// SearchErrorKind discriminates renderable search failures. The UI picks an
// informational treatment for NotFound and an error treatment for Transport,
// without sniffing message strings.
type SearchErrorKind string

const (
	// SearchErrorNotFound means the search succeeded but returned no offers.
	SearchErrorNotFound SearchErrorKind = "NOT_FOUND"

	// SearchErrorTransport means the remote call itself failed.
	SearchErrorTransport SearchErrorKind = "TRANSPORT"
)

// NoMedicineFoundPrefix is the message prefix other layers historically
// matched against. The rendered not-found text keeps this exact contract.
const NoMedicineFoundPrefix = "No medicine found for: "

// SearchError is a renderable search failure. Superseded fetches are
// discarded silently and never become a SearchError.
type SearchError struct {
	Kind    SearchErrorKind
	Message string
}

// NewNotFoundError builds the informational zero-result error for a query.
func NewNotFoundError(query string) *SearchError {
	return &SearchError{
		Kind:    SearchErrorNotFound,
		Message: fmt.Sprintf("%s'%s'", NoMedicineFoundPrefix, query),
	}
}

// NewTransportError builds a generic remote-failure error.
func NewTransportError(message string) *SearchError {
	if message == "" {
		message = "An unknown error occurred"
	}
	return &SearchError{
		Kind:    SearchErrorTransport,
		Message: message,
	}
}
