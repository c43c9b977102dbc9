package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type MeHandler struct {
	ProfileService *service.ProfileService
	Cookie         SessionCookie
}

// HandleGet godoc
//
//	@Summary		Current Member
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	votesdk.MemberResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing, invalid or expired session"
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(m))
}

// HandlePatch godoc
//
//	@Summary		Update Profile
//	@Description	Changes the member's display name.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		votesdk.UpdateProfileRequest	true	"New name"
//	@Success		200		{object}	votesdk.MemberResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Missing, invalid or expired session"
//	@Failure		422		{object}	httpx.ErrorResponse	"Name out of bounds"
//	@Security		BearerAuth
//	@Router			/v1/me [patch].
func (h *MeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}

	var req votesdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	updated, err := h.ProfileService.UpdateName(r.Context(), m.ID, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(updated))
}

// HandleDelete godoc
//
//	@Summary		Delete Profile
//	@Description	Deletes the member. A cast vote is withdrawn.
//	@Tags			Profile
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing, invalid or expired session"
//	@Security		BearerAuth
//	@Router			/v1/me [delete].
func (h *MeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	m, ok := currentMember(w, r)
	if !ok {
		return
	}

	if err := h.ProfileService.Delete(r.Context(), m.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.clear(w)
	w.WriteHeader(http.StatusNoContent)
}
