package llm

import (
	"encoding/json"
	"fmt"
)

// UnavailableError means the provider could not be reached or refused to
// serve the request right now: transport failures, timeouts, 429 and 5xx.
type UnavailableError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s unavailable (status %d): %s", e.Provider, e.StatusCode, truncate(e.Message, 200))
	}
	return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// InvalidResponseError means the provider answered but the payload was an
// error object, undecodable, or carried no completion. Raw keeps the
// provider body for diagnosis.
type InvalidResponseError struct {
	Provider   string
	StatusCode int
	Reason     string
	Raw        json.RawMessage
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s invalid response (status %d): %s", e.Provider, e.StatusCode, e.Reason)
}

// rawPayload keeps body as JSON when it is JSON and as a JSON string otherwise.
func rawPayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(truncate(string(body), 2000))
	return quoted
}
