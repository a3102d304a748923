package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const defaultErrorMessage = "Request failed"

// RequestError is returned for every failed call: transport failures,
// undecodable bodies and non-2xx responses alike.
type RequestError struct {
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *RequestError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// AsRequestError unwraps err into a *RequestError.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

type errorDetail struct {
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// newRequestError picks the message from error.message, then message, then
// the status text.
func newRequestError(status int, raw []byte) *RequestError {
	reqErr := &RequestError{StatusCode: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		var detail errorDetail
		if len(body.Error) > 0 && json.Unmarshal(body.Error, &detail) == nil {
			reqErr.Message = strings.TrimSpace(detail.Message)
			reqErr.Details = detail.Details
		}
		if reqErr.Message == "" {
			reqErr.Message = strings.TrimSpace(body.Message)
		}
		if len(reqErr.Details) == 0 {
			reqErr.Details = body.Details
		}
	}
	if reqErr.Message == "" {
		reqErr.Message = http.StatusText(status)
	}
	if reqErr.Message == "" {
		reqErr.Message = defaultErrorMessage
	}
	return reqErr
}
