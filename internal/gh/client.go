// Package gh provides a GraphQL client for the GitHub API and the two list
// flavors (issues and pull requests) built on it. It implements a deep
// module interface - simple methods hiding the GraphQL query plumbing.
package gh

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
	"github.com/robby/ghl/internal/auth"
)

// DefaultHost is the public GitHub host.
const DefaultHost = "github.com"

// Client is a GitHub GraphQL API client.
type Client struct {
	gql   *graphql.Client
	token string
}

// New creates a GitHub GraphQL client for the given host. It obtains an
// authentication token using the auth package; an empty host means the
// public GitHub API. Returns an error if token retrieval fails.
func New(host string) (*Client, error) {
	if host == "" {
		host = DefaultHost
	}

	token, err := auth.GetToken(host)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain GitHub token: %w", err)
	}

	return &Client{
		gql:   graphql.NewClient(graphqlEndpoint(host)),
		token: token,
	}, nil
}

// graphqlEndpoint maps a host address to its GraphQL endpoint. GitHub
// Enterprise serves the API under the instance's own hostname.
func graphqlEndpoint(host string) string {
	if host == DefaultHost {
		return "https://api.github.com/graphql"
	}
	return "https://" + host + "/api/graphql"
}

// makeRequest executes a GraphQL request with authentication.
// This is a helper method to avoid repeating the authorization header setup.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.gql.Run(ctx, req, resp)
}
