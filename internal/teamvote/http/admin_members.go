package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type AdminMembersHandler struct {
	AdminService *service.AdminService
}

// HandleList godoc
//
//	@Summary		List Members
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	votesdk.ListMembersResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/members [get].
func (h *AdminMembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	members, err := h.AdminService.ListMembers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := votesdk.ListMembersResponse{Members: make([]votesdk.MemberResponse, len(members))}
	for i, m := range members {
		response.Members[i] = toMemberResponse(m)
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleGet godoc
//
//	@Summary		Get Member
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Member ID"
//	@Success		200	{object}	votesdk.MemberResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		404	{object}	httpx.ErrorResponse	"Member not found"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/members/{id} [get].
func (h *AdminMembersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.AdminService.GetMember(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(m))
}

// HandleCreate godoc
//
//	@Summary		Create Member
//	@Description	Creates a member directly, bypassing registration tokens. The token becomes the member's reset token.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.CreateMemberRequest	true	"Member"
//	@Success		201		{object}	votesdk.MemberResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		404		{object}	httpx.ErrorResponse	"Team not found"
//	@Failure		409		{object}	httpx.ErrorResponse	"Username already taken"
//	@Failure		422		{object}	httpx.ErrorResponse	"Invalid fields"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/members [post].
func (h *AdminMembersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req votesdk.CreateMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	m, err := h.AdminService.CreateMember(r.Context(), service.NewMember{
		Name:     req.Name,
		Username: req.Username,
		Token:    req.Token,
		TeamID:   req.TeamID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMemberResponse(m))
}

// HandleUpdate godoc
//
//	@Summary		Update Member
//	@Description	Changes the fields that are present. A new token ends the member's existing sessions.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Member ID"
//	@Param			request	body		votesdk.UpdateMemberRequest	true	"Patch"
//	@Success		200		{object}	votesdk.MemberResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		404		{object}	httpx.ErrorResponse	"Member not found"
//	@Failure		409		{object}	httpx.ErrorResponse	"Username already taken"
//	@Failure		422		{object}	httpx.ErrorResponse	"Invalid fields"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/members/{id} [patch].
func (h *AdminMembersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req votesdk.UpdateMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	m, err := h.AdminService.UpdateMember(r.Context(), r.PathValue("id"), service.MemberPatch{
		Name:     req.Name,
		Username: req.Username,
		Token:    req.Token,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(m))
}

// HandleDelete godoc
//
//	@Summary		Delete Member
//	@Tags			Admin
//	@Param			id	path	string	true	"Member ID"
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing or invalid admin API key"
//	@Failure		404	{object}	httpx.ErrorResponse	"Member not found"
//	@Security		ApiKeyAuth
//	@Router			/v1/admin/members/{id} [delete].
func (h *AdminMembersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.AdminService.DeleteMember(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
