package docqa

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind is the machine-readable code reported to API callers.
type Kind string

const (
	KindNoFile              Kind = "NO_FILE"
	KindUnsupportedFile     Kind = "UNSUPPORTED_FILE"
	KindFileTooLarge        Kind = "FILE_TOO_LARGE"
	KindInvalidDocument     Kind = "INVALID_DOCUMENT"
	KindNoReadableText      Kind = "NO_READABLE_TEXT"
	KindEmptyQuestion       Kind = "EMPTY_QUESTION"
	KindInvalidRequest      Kind = "INVALID_REQUEST"
	KindNoDocumentLoaded    Kind = "NO_DOCUMENT_LOADED"
	KindInvalidResponse     Kind = "INVALID_RESPONSE"
	KindProviderUnavailable Kind = "PROVIDER_UNAVAILABLE"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// Category groups kinds by who can fix them.
type Category string

const (
	CategoryInput         Category = "input"
	CategoryDocumentState Category = "document_state"
	CategoryExtraction    Category = "extraction"
	CategoryProvider      Category = "provider"
	CategoryInternal      Category = "internal"
)

func (k Kind) Category() Category {
	switch k {
	case KindNoFile, KindUnsupportedFile, KindFileTooLarge, KindEmptyQuestion, KindInvalidRequest:
		return CategoryInput
	case KindNoDocumentLoaded:
		return CategoryDocumentState
	case KindInvalidDocument, KindNoReadableText:
		return CategoryExtraction
	case KindInvalidResponse, KindProviderUnavailable:
		return CategoryProvider
	default:
		return CategoryInternal
	}
}

// HTTPStatus maps a kind to the status the API responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindInvalidResponse:
		return http.StatusBadGateway
	case KindProviderUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	}
	switch k.Category() {
	case CategoryInput, CategoryDocumentState, CategoryExtraction:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Details is the provider payload behind an INVALID_RESPONSE.
	Details json.RawMessage
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the Kind of err, or INTERNAL_ERROR for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
