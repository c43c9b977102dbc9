package votesdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *SDKClient) ListTeams(ctx context.Context) (*ListTeamsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/teams", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListTeamsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetTeamMembers(ctx context.Context, teamID string) (*TeamMembersResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/teams/"+url.PathEscape(teamID)+"/members", nil, nil)
	if err != nil {
		return nil, err
	}

	var out TeamMembersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetResults(ctx context.Context) (*ResultsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/results", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ResultsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}
	return &jwks, nil
}
