package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type IssueTokensHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Issue Registration Tokens
//	@Description	Mints single-use registration tokens. The raw tokens are only ever returned here.
//	@Description	The body is optional; without it one token is issued.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.IssueTokensRequest	false	"Number of tokens (1-100)"
//	@Success		201		{object}	votesdk.IssueTokensResponse	"Issued tokens"
//	@Failure		400		{object}	httpx.ErrorResponse			"Malformed request"
//	@Failure		401		{object}	httpx.ErrorResponse			"Missing or invalid admin API key"
//	@Failure		422		{object}	httpx.ErrorResponse			"Count out of range"
//	@Security		ApiKeyAuth
//	@Router			/v1/tokens [post].
func (h *IssueTokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// No body at all, chunked or not, means a single token.
	var req votesdk.IssueTokensRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		writeBadRequest(w, err)
		return
	}
	count := 1
	if req.Count != 0 {
		count = req.Count
	}

	issued, err := h.TokenService.IssueBatch(ctx, httpx.SubjectFromRequest(r), count)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := votesdk.IssueTokensResponse{
		Tokens: make([]votesdk.IssuedToken, len(issued)),
	}
	for i, tok := range issued {
		response.Tokens[i] = votesdk.IssuedToken{
			ID:        tok.ID,
			Token:     tok.Token,
			ExpiresAt: tok.ExpiresAt,
		}
	}

	httpx.WriteJSON(w, http.StatusCreated, response)
}
