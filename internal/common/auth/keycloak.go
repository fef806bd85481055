package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campus-gig-workers/internal/common/errors"
	apphttp "campus-gig-workers/internal/common/http"
	"campus-gig-workers/internal/models"
)

// KeycloakClient resolves callers by introspecting their access token.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	adminRole    string
	posterRole   string
	httpClient   *apphttp.Client
}

type KeycloakOptions struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	AdminRole    string
	PosterRole   string
	Timeout      time.Duration
}

var _ Resolver = (*KeycloakClient)(nil)

func NewKeycloakClient(opts KeycloakOptions) *KeycloakClient {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		realm:        opts.Realm,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		adminRole:    opts.AdminRole,
		posterRole:   opts.PosterRole,
		httpClient:   apphttp.NewClient(opts.Timeout),
	}
}

// TokenInfo holds the information returned by the token introspection endpoint.
type TokenInfo struct {
	Active      bool   `json:"active"`
	Scope       string `json:"scope,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Exp         int64  `json:"exp,omitempty"`
	Sub         string `json:"sub,omitempty"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// ValidateToken checks if an access token is valid and active.
func (k *KeycloakClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, introspectURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.NewExternalServiceError("keycloak", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalServiceError("keycloak", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		stdErr := errors.NewExternalServiceError("keycloak", fmt.Errorf("introspection returned status %d", resp.StatusCode))
		stdErr.Retryable = apphttp.IsTransientStatus(resp.StatusCode)
		return nil, stdErr
	}

	var tokenInfo TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, errors.NewExternalServiceError("keycloak", fmt.Errorf("decode introspection response: %w", err))
	}

	if !tokenInfo.Active || tokenInfo.Sub == "" {
		return nil, errors.NewTokenInvalidError("the access token is expired, revoked or malformed")
	}

	return &tokenInfo, nil
}

// Resolve trusts only the access token. A callerId that disagrees with the
// token subject is rejected.
func (k *KeycloakClient) Resolve(ctx context.Context, creds Credentials) (models.Caller, error) {
	if creds.AccessToken == "" {
		return models.Caller{}, errors.NewTokenInvalidError("access token is required")
	}

	info, err := k.ValidateToken(ctx, creds.AccessToken)
	if err != nil {
		return models.Caller{}, err
	}
	if creds.CallerID != "" && creds.CallerID != info.Sub {
		return models.Caller{}, errors.NewUnauthorizedError("callerId does not match token subject")
	}

	return models.Caller{ID: info.Sub, Role: k.roleOf(info.RealmAccess.Roles)}, nil
}

func (k *KeycloakClient) roleOf(roles []string) models.Role {
	role := models.RoleStudent
	for _, r := range roles {
		switch {
		case strings.EqualFold(r, k.adminRole):
			return models.RoleAdmin
		case strings.EqualFold(r, k.posterRole):
			role = models.RolePoster
		}
	}
	return role
}
