package service

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrNotFound         = errors.New("not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrAlreadyInTeam    = errors.New("member already belongs to a team")
	ErrNotInTeam        = errors.New("member is not in a team")
	ErrAlreadyVoted     = errors.New("member has already voted")
	ErrNotVoted         = errors.New("member has not voted")
	ErrSelfVote         = errors.New("members cannot vote for their own team")
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnavailable wraps storage failures. Nothing is retried.
	ErrUnavailable = errors.New("storage unavailable")
)

var (
	ErrTeamNotFound   = fmt.Errorf("%w: team", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("%w: member", ErrNotFound)
)

var domainErrors = []error{
	ErrUnauthorized,
	ErrUnauthenticated,
	ErrNotFound,
	ErrInvalidToken,
	ErrUsernameTaken,
	ErrAlreadyInTeam,
	ErrNotInTeam,
	ErrAlreadyVoted,
	ErrNotVoted,
	ErrSelfVote,
	ErrValidationFailed,
	ErrUnavailable,
}

// classify passes domain errors through and marks anything else as a
// storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// failed classifies err and logs it when it is a storage failure. Rejected
// requests are logged by the caller at Warn.
func failed(log *slog.Logger, msg string, err error) error {
	err = classify(err)
	if errors.Is(err, ErrUnavailable) {
		log.Error(msg, slog.Any("error", err))
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
