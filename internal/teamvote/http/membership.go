package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type MembershipHandler struct {
	MembershipService *service.MembershipService
}

// HandleJoin godoc
//
//	@Summary		Join Team
//	@Description	Joins a team. Members must leave their current team first and cannot join the team they vote for.
//	@Tags			Membership
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.TeamRef	true	"Team to join"
//	@Success		200		{object}	votesdk.MemberResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"Team not found"
//	@Failure		409		{object}	httpx.ErrorResponse	"already_in_team or self_vote"
//	@Security		BearerAuth
//	@Router			/v1/me/team [post].
func (h *MembershipHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}

	var req votesdk.TeamRef
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	updated, err := h.MembershipService.Join(r.Context(), m.ID, req.TeamID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(updated))
}

// HandleLeave godoc
//
//	@Summary		Leave Team
//	@Description	Leaves the current team. An existing vote is kept.
//	@Tags			Membership
//	@Produce		json
//	@Success		200	{object}	votesdk.MemberResponse
//	@Failure		409	{object}	httpx.ErrorResponse	"not_in_team"
//	@Security		BearerAuth
//	@Router			/v1/me/team [delete].
func (h *MembershipHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}

	updated, err := h.MembershipService.Leave(r.Context(), m.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(updated))
}
