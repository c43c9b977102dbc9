package votesdk

import (
	"context"
	"net/http"
	"net/url"
)

// AdminAPIKeyHeader carries the administrator credential.
const AdminAPIKeyHeader = "X-API-Key"

// AdminClient calls the admin endpoints with a static API key.
type AdminClient struct {
	client *SDKClient
	apiKey string
}

func (a *AdminClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return a.client.doRequest(ctx, method, path, body, map[string]string{
		AdminAPIKeyHeader: a.apiKey,
	})
}

// IssueTokens mints count registration tokens.
func (a *AdminClient) IssueTokens(ctx context.Context, count int) (*IssueTokensResponse, error) {
	resp, err := a.do(ctx, http.MethodPost, "/v1/tokens", IssueTokensRequest{Count: count})
	if err != nil {
		return nil, err
	}

	var out IssueTokensResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) CreateTeam(ctx context.Context, req CreateTeamRequest) (*TeamResponse, error) {
	resp, err := a.do(ctx, http.MethodPost, "/v1/admin/teams", req)
	if err != nil {
		return nil, err
	}

	var out TeamResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) UpdateTeam(ctx context.Context, id string, req UpdateTeamRequest) (*TeamResponse, error) {
	resp, err := a.do(ctx, http.MethodPatch, "/v1/admin/teams/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}

	var out TeamResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeam deletes a team and reports what was detached from it.
func (a *AdminClient) DeleteTeam(ctx context.Context, id string) (*DeleteTeamResponse, error) {
	resp, err := a.do(ctx, http.MethodDelete, "/v1/admin/teams/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var out DeleteTeamResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) ListMembers(ctx context.Context) (*ListMembersResponse, error) {
	resp, err := a.do(ctx, http.MethodGet, "/v1/admin/members", nil)
	if err != nil {
		return nil, err
	}

	var out ListMembersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) GetMember(ctx context.Context, id string) (*MemberResponse, error) {
	resp, err := a.do(ctx, http.MethodGet, "/v1/admin/members/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var out MemberResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) CreateMember(ctx context.Context, req CreateMemberRequest) (*MemberResponse, error) {
	resp, err := a.do(ctx, http.MethodPost, "/v1/admin/members", req)
	if err != nil {
		return nil, err
	}

	var out MemberResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) UpdateMember(ctx context.Context, id string, req UpdateMemberRequest) (*MemberResponse, error) {
	resp, err := a.do(ctx, http.MethodPatch, "/v1/admin/members/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}

	var out MemberResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) DeleteMember(ctx context.Context, id string) error {
	resp, err := a.do(ctx, http.MethodDelete, "/v1/admin/members/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
