package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type RegisterHandler struct {
	SessionService *service.SessionService
	Cookie         SessionCookie
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Redeems a registration token and creates a member. The token becomes the member's reset token.
//	@Description	The session credential is returned in the body and set as an HttpOnly cookie.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.RegisterRequest		true	"token, name, username"
//	@Success		201		{object}	votesdk.RegisterResponse	"member, session"
//	@Failure		400		{object}	httpx.ErrorResponse			"Invalid, expired or already redeemed token"
//	@Failure		409		{object}	httpx.ErrorResponse			"Username already taken"
//	@Failure		422		{object}	httpx.ErrorResponse			"Name or username out of bounds"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req votesdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	member, session, err := h.SessionService.Redeem(r.Context(), req.Token, req.Name, req.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, session)
	httpx.WriteJSON(w, http.StatusCreated, votesdk.RegisterResponse{
		Member:  toMemberResponse(member),
		Session: toSessionResponse(session),
	})
}

type ResumeHandler struct {
	SessionService *service.SessionService
	Cookie         SessionCookie
}

// ServeHTTP godoc
//
//	@Summary		Resume Session
//	@Description	Exchanges a member's reset token for a new session credential.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.ResumeRequest	true	"Reset token"
//	@Success		200		{object}	votesdk.SessionResponse	"Session credential"
//	@Failure		400		{object}	httpx.ErrorResponse		"Unknown token"
//	@Router			/v1/sessions/resume [post].
func (h *ResumeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req votesdk.ResumeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	session, err := h.SessionService.Resume(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, session)
	httpx.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}
