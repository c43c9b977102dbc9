package votesdk

import (
	"context"
	"net/http"
)

// MemberSession calls the endpoints scoped to one member.
type MemberSession struct {
	client *SDKClient
	token  string
}

// Token returns the session credential.
func (s *MemberSession) Token() string { return s.token }

func (s *MemberSession) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return s.client.doRequest(ctx, method, path, body, map[string]string{
		"Authorization": "Bearer " + s.token,
	})
}

func (s *MemberSession) member(ctx context.Context, method, path string, body any) (*MemberResponse, error) {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var out MemberResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the current member.
func (s *MemberSession) Me(ctx context.Context) (*MemberResponse, error) {
	return s.member(ctx, http.MethodGet, "/v1/me", nil)
}

func (s *MemberSession) UpdateName(ctx context.Context, name string) (*MemberResponse, error) {
	return s.member(ctx, http.MethodPatch, "/v1/me", UpdateProfileRequest{Name: name})
}

// DeleteProfile deletes the member. The session is unusable afterwards.
func (s *MemberSession) DeleteProfile(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodDelete, "/v1/me", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *MemberSession) JoinTeam(ctx context.Context, teamID string) (*MemberResponse, error) {
	return s.member(ctx, http.MethodPost, "/v1/me/team", TeamRef{TeamID: teamID})
}

func (s *MemberSession) LeaveTeam(ctx context.Context) (*MemberResponse, error) {
	return s.member(ctx, http.MethodDelete, "/v1/me/team", nil)
}

func (s *MemberSession) Vote(ctx context.Context, teamID string) (*MemberResponse, error) {
	return s.member(ctx, http.MethodPost, "/v1/me/vote", TeamRef{TeamID: teamID})
}

// RollbackVote withdraws the member's vote.
func (s *MemberSession) RollbackVote(ctx context.Context) (*MemberResponse, error) {
	return s.member(ctx, http.MethodDelete, "/v1/me/vote", nil)
}
