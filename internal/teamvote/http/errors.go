package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; storage failures first so a wrapped cause never leaks.
var errorMappings = []errorMapping{
	{service.ErrUnavailable, http.StatusServiceUnavailable, votesdk.ErrorCodeUnavailable},
	{service.ErrUnauthorized, http.StatusUnauthorized, votesdk.ErrorCodeUnauthorized},
	{service.ErrUnauthenticated, http.StatusUnauthorized, votesdk.ErrorCodeUnauthenticated},
	{service.ErrNotFound, http.StatusNotFound, votesdk.ErrorCodeNotFound},
	{service.ErrInvalidToken, http.StatusBadRequest, votesdk.ErrorCodeInvalidToken},
	{service.ErrUsernameTaken, http.StatusConflict, votesdk.ErrorCodeUsernameTaken},
	{service.ErrAlreadyInTeam, http.StatusConflict, votesdk.ErrorCodeAlreadyInTeam},
	{service.ErrNotInTeam, http.StatusConflict, votesdk.ErrorCodeNotInTeam},
	{service.ErrAlreadyVoted, http.StatusConflict, votesdk.ErrorCodeAlreadyVoted},
	{service.ErrNotVoted, http.StatusConflict, votesdk.ErrorCodeNotVoted},
	{service.ErrSelfVote, http.StatusConflict, votesdk.ErrorCodeSelfVote},
	{service.ErrValidationFailed, http.StatusUnprocessableEntity, votesdk.ErrorCodeValidationFailed},
}

// writeServiceError maps a service error onto its status and error code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		description := err.Error()
		if m.err == service.ErrUnavailable {
			description = "storage is unavailable, try again later"
		}
		httpx.WriteError(w, m.status, m.code, description)
		return
	}

	slogx.FromContext(r.Context()).Error("unhandled error", slog.Any("error", err))
	httpx.WriteError(w, http.StatusInternalServerError, votesdk.ErrorCodeServerError, "internal error")
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, votesdk.ErrorCodeInvalidRequest, err.Error())
}
