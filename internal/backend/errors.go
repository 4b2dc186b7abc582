package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Failure kinds callers can test with errors.Is. A timed-out request is
// reported distinctly from a connectivity failure; a non-success HTTP
// status becomes a *ServerError carrying the status code and the best
// message that could be mined from the body.
var (
	ErrTimeout = errors.New("request timed out")
	ErrNetwork = errors.New("network failure")
	ErrServer  = errors.New("server error")
)

// ServerError is a non-success HTTP response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func (e *ServerError) Unwrap() error { return ErrServer }

// classifyTransportError folds a failed round trip into the taxonomy.
// Context deadlines and url.Error timeouts become ErrTimeout; everything
// else that produced no response at all is ErrNetwork.
func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// errorBody models the structured error payloads the backend emits: a
// plain detail string, a FastAPI-style array of field validation errors,
// or message/error keys on older endpoints.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type validationError struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// serverError extracts a human-readable message from an error response
// body, falling back to "HTTP <status>" when the body is unstructured.
func serverError(status int, body []byte) *ServerError {
	return &ServerError{Status: status, Message: extractMessage(body)}
}

func extractMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	if len(parsed.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
			return strings.TrimSpace(detail)
		}
		var fields []validationError
		if err := json.Unmarshal(parsed.Detail, &fields); err == nil {
			msgs := make([]string, 0, len(fields))
			for _, field := range fields {
				msg := field.Msg
				if msg == "" {
					msg = field.Message
				}
				if msg = strings.TrimSpace(msg); msg != "" {
					msgs = append(msgs, msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(parsed.Error)
}
