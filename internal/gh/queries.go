package gh

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
	"github.com/robby/ghl/internal/domain"
)

// defaultPageSize is the page size for item and author queries.
const defaultPageSize = 100

// ResolveParentOwnerLogin returns the owner login of the repository's
// upstream ("parent") repository, or an empty string when the repository is
// not a fork. The request itself failing is an error; a missing parent is
// not.
func (c *Client) ResolveParentOwnerLogin(ctx context.Context, repo domain.RepositoryRef) (string, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!) {
			repository(owner: $owner, name: $name) {
				parent {
					owner {
						login
					}
				}
			}
		}
	`)
	req.Var("owner", repo.Owner)
	req.Var("name", repo.Name)

	var resp struct {
		Repository struct {
			Parent *struct {
				Owner struct {
					Login string `json:"login"`
				} `json:"owner"`
			} `json:"parent"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to resolve parent of %s: %w", repo.NameWithOwner(), err)
	}

	if resp.Repository.Parent == nil {
		return "", nil
	}
	return resp.Repository.Parent.Owner.Login, nil
}

// itemNode is the shared shape of issue and pull request list nodes.
type itemNode struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// pageInfo is the shared cursor-pagination shape.
type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// toItems converts API nodes to domain items. Deleted users leave a nil
// author; the login stays empty.
func toItems(nodes []itemNode) []domain.Item {
	items := make([]domain.Item, 0, len(nodes))
	for _, node := range nodes {
		item := domain.Item{
			Number:    node.Number,
			Title:     node.Title,
			State:     node.State,
			URL:       node.URL,
			CreatedAt: node.CreatedAt,
		}
		if node.Author != nil {
			item.Author = domain.Actor{Login: node.Author.Login}
		}
		items = append(items, item)
	}
	return items
}

// ListIssues fetches one page of issues in the given states. An empty cursor
// means the first page.
func (c *Client) ListIssues(ctx context.Context, repo domain.RepositoryRef, states []string, cursor string) (domain.ItemPage, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $states: [IssueState!], $first: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				issues(states: $states, first: $first, after: $after, orderBy: {field: CREATED_AT, direction: DESC}) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {
						number
						title
						state
						url
						author {
							login
						}
						createdAt
					}
				}
			}
		}
	`)
	setListVars(req, repo, states, cursor)

	var resp struct {
		Repository struct {
			Issues struct {
				PageInfo pageInfo   `json:"pageInfo"`
				Nodes    []itemNode `json:"nodes"`
			} `json:"issues"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return domain.ItemPage{}, fmt.Errorf("failed to list issues for %s: %w", repo.NameWithOwner(), err)
	}

	return domain.ItemPage{
		Items:      toItems(resp.Repository.Issues.Nodes),
		NextCursor: resp.Repository.Issues.PageInfo.EndCursor,
		HasNext:    resp.Repository.Issues.PageInfo.HasNextPage,
	}, nil
}

// ListPullRequests fetches one page of pull requests in the given states.
// An empty cursor means the first page.
func (c *Client) ListPullRequests(ctx context.Context, repo domain.RepositoryRef, states []string, cursor string) (domain.ItemPage, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $states: [PullRequestState!], $first: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				pullRequests(states: $states, first: $first, after: $after, orderBy: {field: CREATED_AT, direction: DESC}) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {
						number
						title
						state
						url
						author {
							login
						}
						createdAt
					}
				}
			}
		}
	`)
	setListVars(req, repo, states, cursor)

	var resp struct {
		Repository struct {
			PullRequests struct {
				PageInfo pageInfo   `json:"pageInfo"`
				Nodes    []itemNode `json:"nodes"`
			} `json:"pullRequests"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return domain.ItemPage{}, fmt.Errorf("failed to list pull requests for %s: %w", repo.NameWithOwner(), err)
	}

	return domain.ItemPage{
		Items:      toItems(resp.Repository.PullRequests.Nodes),
		NextCursor: resp.Repository.PullRequests.PageInfo.EndCursor,
		HasNext:    resp.Repository.PullRequests.PageInfo.HasNextPage,
	}, nil
}

// setListVars applies the variables shared by both list queries.
func setListVars(req *graphql.Request, repo domain.RepositoryRef, states []string, cursor string) {
	req.Var("owner", repo.Owner)
	req.Var("name", repo.Name)
	req.Var("states", states)
	req.Var("first", defaultPageSize)
	if cursor != "" {
		req.Var("after", cursor)
	} else {
		req.Var("after", nil)
	}
}

// ListAssignableUsers fetches one page of users assignable in the
// repository, used as author-filter candidates. An empty cursor means the
// first page.
func (c *Client) ListAssignableUsers(ctx context.Context, repo domain.RepositoryRef, cursor string) (domain.ActorPage, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $first: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				assignableUsers(first: $first, after: $after) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {
						login
					}
				}
			}
		}
	`)
	req.Var("owner", repo.Owner)
	req.Var("name", repo.Name)
	req.Var("first", defaultPageSize)
	if cursor != "" {
		req.Var("after", cursor)
	} else {
		req.Var("after", nil)
	}

	var resp struct {
		Repository struct {
			AssignableUsers struct {
				PageInfo pageInfo `json:"pageInfo"`
				Nodes    []struct {
					Login string `json:"login"`
				} `json:"nodes"`
			} `json:"assignableUsers"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return domain.ActorPage{}, fmt.Errorf("failed to list assignable users for %s: %w", repo.NameWithOwner(), err)
	}

	actors := make([]domain.Actor, 0, len(resp.Repository.AssignableUsers.Nodes))
	for _, node := range resp.Repository.AssignableUsers.Nodes {
		actors = append(actors, domain.Actor{Login: node.Login})
	}

	return domain.ActorPage{
		Actors:     actors,
		NextCursor: resp.Repository.AssignableUsers.PageInfo.EndCursor,
		HasNext:    resp.Repository.AssignableUsers.PageInfo.HasNextPage,
	}, nil
}
