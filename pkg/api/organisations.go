package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

var organisationFields = map[string]string{
	"id":            "id",
	"mnemonic":      "id",
	"name":          "name",
	"public_access": "publicAccess",
}

func (c *Client) FetchUserOrganisations(ctx context.Context) ([]model.Organisation, error) {
	var out []model.Organisation
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user/orgs/",
		query:  url.Values{"limit": {"0"}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch user organisations: %w", err)
	}
	return out, nil
}

func (c *Client) CreateOrganisation(ctx context.Context, org model.Organisation) (*model.Organisation, error) {
	var out model.Organisation
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/orgs/",
		body:   org,
		fields: organisationFields,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("create organisation %s: %w", org.ID, err)
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var raw []byte
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/login/",
		body:   map[string]string{"username": username, "password": password},
	}, &raw)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	// Older deployments nest the token under "data".
	token := gjson.GetBytes(raw, "token")
	if !token.Exists() {
		token = gjson.GetBytes(raw, "data.token")
	}
	if token.String() == "" {
		return "", fmt.Errorf("login: response has no token")
	}
	return token.String(), nil
}

func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/"}, &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}
