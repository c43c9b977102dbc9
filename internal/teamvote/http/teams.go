package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type TeamsHandler struct {
	TeamService *service.TeamService
}

// HandleList godoc
//
//	@Summary		List Teams
//	@Tags			Teams
//	@Produce		json
//	@Success		200	{object}	votesdk.ListTeamsResponse
//	@Router			/v1/teams [get].
func (h *TeamsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.TeamService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := votesdk.ListTeamsResponse{Teams: make([]votesdk.TeamResponse, len(teams))}
	for i, t := range teams {
		response.Teams[i] = toTeamResponse(t)
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleMembers godoc
//
//	@Summary		Team Members
//	@Description	The team and the display names of its members.
//	@Tags			Teams
//	@Produce		json
//	@Param			id	path		string	true	"Team ID"
//	@Success		200	{object}	votesdk.TeamMembersResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"Team not found"
//	@Router			/v1/teams/{id}/members [get].
func (h *TeamsHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	roster, err := h.TeamService.Members(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, votesdk.TeamMembersResponse{
		Team:    toTeamResponse(roster.Team),
		Members: roster.Members,
	})
}

// HandleCreate godoc
//
//	@Summary		Create Team
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.CreateTeamRequest	true	"Team"
//	@Success		201		{object}	votesdk.TeamResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		422		{object}	httpx.ErrorResponse	"Invalid or duplicate name, invalid avatar"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/teams [post].
func (h *TeamsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req votesdk.CreateTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	team, err := h.TeamService.Create(r.Context(), req.Name, req.Avatar)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTeamResponse(team))
}

// HandleUpdate godoc
//
//	@Summary		Update Team
//	@Description	Changes the fields that are present. An empty avatar clears it.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Team ID"
//	@Param			request	body		votesdk.UpdateTeamRequest	true	"Patch"
//	@Success		200		{object}	votesdk.TeamResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		404		{object}	httpx.ErrorResponse	"Team not found"
//	@Failure		422		{object}	httpx.ErrorResponse	"Invalid or duplicate name, invalid avatar"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/teams/{id} [patch].
func (h *TeamsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req votesdk.UpdateTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	team, err := h.TeamService.Update(r.Context(), r.PathValue("id"), service.TeamPatch{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTeamResponse(team))
}

// HandleDelete godoc
//
//	@Summary		Delete Team
//	@Description	Deletes a team. Members in it are detached and votes for it are dropped in the same transaction.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Team ID"
//	@Success		200	{object}	votesdk.DeleteTeamResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		404	{object}	httpx.ErrorResponse	"Team not found"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/teams/{id} [delete].
func (h *TeamsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.TeamService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, votesdk.DeleteTeamResponse{
		DetachedMembers: res.DetachedMembers,
		DroppedVotes:    res.DroppedVotes,
	})
}
