package linear

import (
	"context"

	"github.com/machinebox/graphql"
	"github.com/robby/lpi/internal/domain"
)

const projectIssuesQuery = `
	query($projectId: String!, $first: Int!, $after: String, $filter: IssueFilter) {
		project(id: $projectId) {
			id
			name
			description
			startDate
			targetDate
			state
			teams(first: 1) {
				nodes {
					id
				}
			}
			projectMilestones(first: 250) {
				nodes {
					id
					name
					description
					targetDate
					issues(first: 250) {
						nodes {
							id
							state {
								type
							}
						}
					}
				}
			}
			issues(first: $first, after: $after, filter: $filter) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					id
					identifier
					title
					description
					url
					priority
					estimate
					createdAt
					updatedAt
					cycle {
						id
						name
						number
						startsAt
						endsAt
					}
					state {
						name
						type
						color
					}
					labels {
						nodes {
							name
							color
						}
					}
					projectMilestone {
						id
						name
					}
				}
			}
		}
	}
`

// issueFilter builds the server-side IssueFilter for the selected label and
// state names. Empty selections add no constraint; nil means no filter at all.
func issueFilter(labels, states []string) map[string]interface{} {
	filter := make(map[string]interface{})
	if len(labels) > 0 {
		filter["labels"] = map[string]interface{}{
			"name": map[string]interface{}{"in": labels},
		}
	}
	if len(states) > 0 {
		filter["state"] = map[string]interface{}{
			"name": map[string]interface{}{"in": states},
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

// GetProjectIssues fetches a project with its milestones and every issue
// matching the label and state names. The issue list is paginated until the
// API reports no further pages.
func (c *Client) GetProjectIssues(ctx context.Context, projectID string, labels, states []string) (*domain.ProjectData, error) {
	filter := issueFilter(labels, states)

	var (
		project *domain.ProjectData
		cursor  string
	)

	for page := 0; page < maxPages; page++ {
		req := graphql.NewRequest(projectIssuesQuery)
		req.Var("projectId", projectID)
		req.Var("first", c.pageSize)
		if cursor != "" {
			req.Var("after", cursor)
		} else {
			req.Var("after", nil)
		}
		req.Var("filter", filter)

		var resp struct {
			Project *struct {
				ID          string `json:"id"`
				Name        string `json:"name"`
				Description string `json:"description"`
				StartDate   string `json:"startDate"`
				TargetDate  string `json:"targetDate"`
				State       string `json:"state"`
				Teams       struct {
					Nodes []struct {
						ID string `json:"id"`
					} `json:"nodes"`
				} `json:"teams"`
				ProjectMilestones struct {
					Nodes []rawMilestone `json:"nodes"`
				} `json:"projectMilestones"`
				Issues struct {
					PageInfo pageInfo   `json:"pageInfo"`
					Nodes    []rawIssue `json:"nodes"`
				} `json:"issues"`
			} `json:"project"`
		}

		if err := c.makeRequest(ctx, req, &resp); err != nil {
			return nil, WrapError("get", "project issues", err)
		}
		if resp.Project == nil {
			return nil, WrapError("get", "project issues", ErrNotFound)
		}

		// Project metadata comes from the first page
		if project == nil {
			p := resp.Project
			project = &domain.ProjectData{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				StartDate:   parseDate(p.StartDate),
				TargetDate:  parseDate(p.TargetDate),
				State:       p.State,
				Issues:      make([]domain.Issue, 0, len(p.Issues.Nodes)),
				Milestones:  make([]domain.ProjectMilestone, 0, len(p.ProjectMilestones.Nodes)),
			}
			if len(p.Teams.Nodes) > 0 {
				project.TeamID = p.Teams.Nodes[0].ID
			}
			for _, m := range p.ProjectMilestones.Nodes {
				project.Milestones = append(project.Milestones, toMilestone(m))
			}
		}

		for _, node := range resp.Project.Issues.Nodes {
			project.Issues = append(project.Issues, toIssue(node))
		}

		info := resp.Project.Issues.PageInfo
		if !info.HasNextPage || info.EndCursor == "" {
			break
		}
		cursor = info.EndCursor
	}

	return project, nil
}

// GetTeamLabels fetches the label vocabulary of the project's first team.
// A project without teams has no labels.
func (c *Client) GetTeamLabels(ctx context.Context, projectID string) ([]domain.Label, error) {
	req := graphql.NewRequest(`
		query($projectId: String!) {
			project(id: $projectId) {
				teams(first: 1) {
					nodes {
						labels(first: 250) {
							nodes {
								name
								color
							}
						}
					}
				}
			}
		}
	`)
	req.Var("projectId", projectID)

	var resp struct {
		Project *struct {
			Teams struct {
				Nodes []struct {
					Labels struct {
						Nodes []rawLabel `json:"nodes"`
					} `json:"labels"`
				} `json:"nodes"`
			} `json:"teams"`
		} `json:"project"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, WrapError("get", "team labels", err)
	}
	if resp.Project == nil {
		return nil, WrapError("get", "team labels", ErrNotFound)
	}
	if len(resp.Project.Teams.Nodes) == 0 {
		return []domain.Label{}, nil
	}

	return toLabels(resp.Project.Teams.Nodes[0].Labels.Nodes), nil
}

// ListProjects lists every project the API key can access.
func (c *Client) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	var (
		projects []domain.ProjectSummary
		cursor   string
	)

	for page := 0; page < maxPages; page++ {
		req := graphql.NewRequest(`
			query($first: Int!, $after: String) {
				projects(first: $first, after: $after) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {
						id
						name
						state
					}
				}
			}
		`)
		req.Var("first", c.pageSize)
		if cursor != "" {
			req.Var("after", cursor)
		} else {
			req.Var("after", nil)
		}

		var resp struct {
			Projects struct {
				PageInfo pageInfo `json:"pageInfo"`
				Nodes    []struct {
					ID    string `json:"id"`
					Name  string `json:"name"`
					State string `json:"state"`
				} `json:"nodes"`
			} `json:"projects"`
		}

		if err := c.makeRequest(ctx, req, &resp); err != nil {
			return nil, WrapError("list", "projects", err)
		}

		for _, node := range resp.Projects.Nodes {
			projects = append(projects, domain.ProjectSummary{
				ID:    node.ID,
				Name:  node.Name,
				State: node.State,
			})
		}

		if !resp.Projects.PageInfo.HasNextPage || resp.Projects.PageInfo.EndCursor == "" {
			break
		}
		cursor = resp.Projects.PageInfo.EndCursor
	}

	if projects == nil {
		projects = []domain.ProjectSummary{}
	}
	return projects, nil
}
