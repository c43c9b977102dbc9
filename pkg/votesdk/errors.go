package votesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest   = "invalid_request"
	ErrorCodeUnauthorized     = "unauthorized"
	ErrorCodeUnauthenticated  = "unauthenticated"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeInvalidToken     = "invalid_token"
	ErrorCodeUsernameTaken    = "username_taken"
	ErrorCodeAlreadyInTeam    = "already_in_team"
	ErrorCodeNotInTeam        = "not_in_team"
	ErrorCodeAlreadyVoted     = "already_voted"
	ErrorCodeNotVoted         = "not_voted"
	ErrorCodeSelfVote         = "self_vote"
	ErrorCodeValidationFailed = "validation_failed"
	ErrorCodeUnavailable      = "unavailable"
	ErrorCodeRateLimited      = "rate_limit_exceeded"
	ErrorCodeServerError      = "server_error"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
