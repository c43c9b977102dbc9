package votesdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the teamvote service. It calls the public
// endpoints and creates MemberSession and AdminClient values for the
// authenticated ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register redeems a registration token and returns a session for the new
// member. Keep the token: it is the member's reset token for Resume.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*MemberSession, *MemberResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/register", req, nil)
	if err != nil {
		return nil, nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, nil, err
	}

	return c.NewMemberSession(out.Session.Token), &out.Member, nil
}

// Resume exchanges a reset token for a fresh session.
func (c *SDKClient) Resume(ctx context.Context, resetToken string) (*MemberSession, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions/resume", ResumeRequest{Token: resetToken}, nil)
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return c.NewMemberSession(out.Token), nil
}

// NewMemberSession wraps an existing session credential.
func (c *SDKClient) NewMemberSession(token string) *MemberSession {
	return &MemberSession{client: c, token: token}
}

// Admin returns a client for the admin endpoints using apiKey.
func (c *SDKClient) Admin(apiKey string) *AdminClient {
	return &AdminClient{client: c, apiKey: apiKey}
}
