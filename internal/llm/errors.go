package llm

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned when no model credential is configured. The
// message is safe to surface to the caller as a configuration hint.
var ErrNoAPIKey = errors.New("GROQ_API_KEY is not set; add it to .env and get a key at https://console.groq.com")

// RemoteError is a non-2xx response from the model API. Status and Body
// are kept so callers can tell transient from permanent failures.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	if e.Status == 401 {
		return "invalid Groq API key; check GROQ_API_KEY and get a valid key at https://console.groq.com"
	}
	return fmt.Sprintf("Groq API error: %d %s", e.Status, e.Body)
}
