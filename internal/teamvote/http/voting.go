package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type VotingHandler struct {
	VotingService *service.VotingService
}

// HandleVote godoc
//
//	@Summary		Cast Vote
//	@Description	Votes for a team other than the member's own. One vote per member; roll back before voting again.
//	@Tags			Voting
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.TeamRef	true	"Team to vote for"
//	@Success		200		{object}	votesdk.MemberResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"Team not found"
//	@Failure		409		{object}	httpx.ErrorResponse	"already_voted or self_vote"
//	@Security		BearerAuth
//	@Router			/v1/me/vote [post].
func (h *VotingHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}

	var req votesdk.TeamRef
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	updated, err := h.VotingService.Vote(r.Context(), m.ID, req.TeamID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(updated))
}

// HandleRollback godoc
//
//	@Summary		Roll Back Vote
//	@Tags			Voting
//	@Produce		json
//	@Success		200	{object}	votesdk.MemberResponse
//	@Failure		409	{object}	httpx.ErrorResponse	"not_voted"
//	@Security		BearerAuth
//	@Router			/v1/me/vote [delete].
func (h *VotingHandler) HandleRollback(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}

	updated, err := h.VotingService.Rollback(r.Context(), m.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(updated))
}

// HandleResults godoc
//
//	@Summary		Voting Results
//	@Description	Every team with its vote count, ordered by team id. Teams without votes are included.
//	@Tags			Voting
//	@Produce		json
//	@Success		200	{object}	votesdk.ResultsResponse
//	@Failure		503	{object}	httpx.ErrorResponse	"Storage unavailable"
//	@Router			/v1/results [get].
func (h *VotingHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	tallies, err := h.VotingService.Results(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := votesdk.ResultsResponse{
		Results:    make([]votesdk.TeamResult, len(tallies)),
		TotalVotes: service.TotalVotes(tallies),
	}
	for i, t := range tallies {
		response.Results[i] = votesdk.TeamResult{TeamID: t.TeamID, Name: t.Name, Votes: t.Votes}
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}
