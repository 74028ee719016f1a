package linear

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robby/lpi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newTestServer serves GraphQL responses produced by handle and records
// every decoded request.
func newTestServer(t *testing.T, handle func(req gqlRequest) (int, string)) (*httptest.Server, *[]gqlRequest) {
	t.Helper()
	var requests []gqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lin_api_test", r.Header.Get("Authorization"))

		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		status, body := handle(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(url, "lin_api_test", WithPageSize(2), WithRetryDelays(time.Millisecond, time.Millisecond))
	require.NoError(t, err)
	return c
}

const projectPage1 = `{"data":{"project":{
	"id":"p1","name":"Apollo","description":"Ship it","startDate":"2025-01-06","targetDate":null,"state":"started",
	"teams":{"nodes":[{"id":"t1"}]},
	"projectMilestones":{"nodes":[{"id":"m1","name":"Beta","targetDate":"2025-03-31","issues":{"nodes":[
		{"id":"i1","state":{"type":"completed"}},{"id":"i2","state":{"type":"started"}}]}}]},
	"issues":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[
		{"id":"i1","identifier":"ENG-1","title":"One","priority":2,"estimate":3,"createdAt":"2025-01-07T10:00:00.000Z","updatedAt":"2025-01-08T10:00:00.000Z",
		 "cycle":{"id":"c","name":"","number":4,"startsAt":"2025-01-06T00:00:00.000Z","endsAt":"2025-01-20T00:00:00.000Z"},
		 "state":{"name":"Done","type":"completed","color":"#5e6ad2"},
		 "labels":{"nodes":[{"name":"bug","color":"#eb5757"},{"name":"bug","color":"#eb5757"}]},
		 "projectMilestone":{"id":"m1","name":"Beta"}},
		{"id":"i2","identifier":"ENG-2","title":"Two","priority":2.5,"estimate":-1,"createdAt":"2025-01-07T11:00:00.000Z","updatedAt":"2025-01-07T11:00:00.000Z",
		 "cycle":null,"state":{"name":"In Progress","type":"started"},"labels":{"nodes":[]},"projectMilestone":null}
	]}}}}`

const projectPage2 = `{"data":{"project":{
	"id":"p1","name":"Apollo","teams":{"nodes":[]},"projectMilestones":{"nodes":[]},
	"issues":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[
		{"id":"i3","identifier":"ENG-3","title":"Three","priority":null,"estimate":null,"createdAt":"2025-01-09T00:00:00Z","updatedAt":"2025-01-09T00:00:00Z","state":{"name":"Todo","type":"unstarted"}}
	]}}}}`

func TestGetProjectIssues(t *testing.T) {
	srv, requests := newTestServer(t, func(req gqlRequest) (int, string) {
		if req.Variables["after"] == "c1" {
			return http.StatusOK, projectPage2
		}
		return http.StatusOK, projectPage1
	})
	c := newTestClient(t, srv.URL)

	data, err := c.GetProjectIssues(context.Background(), "p1", []string{"bug"}, nil)
	require.NoError(t, err)

	t.Run("paginates", func(t *testing.T) {
		require.Len(t, *requests, 2)
		require.Len(t, data.Issues, 3)
		assert.Equal(t, []string{"ENG-1", "ENG-2", "ENG-3"}, []string{
			data.Issues[0].Identifier, data.Issues[1].Identifier, data.Issues[2].Identifier,
		})
		assert.EqualValues(t, 2, (*requests)[0].Variables["first"])
	})

	t.Run("requests full milestone subsets", func(t *testing.T) {
		query := (*requests)[0].Query
		assert.Contains(t, query, "projectMilestones(first: 250)")
		assert.Contains(t, query, "issues(first: 250)")
	})

	t.Run("sends server filter", func(t *testing.T) {
		filter, ok := (*requests)[0].Variables["filter"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, filter, "labels")
		assert.NotContains(t, filter, "state")
	})

	t.Run("project metadata", func(t *testing.T) {
		assert.Equal(t, "Apollo", data.Name)
		assert.Equal(t, "t1", data.TeamID)
		require.NotNil(t, data.StartDate)
		assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), *data.StartDate)
		assert.Nil(t, data.TargetDate)
		require.Len(t, data.Milestones, 1)
		assert.Len(t, data.Milestones[0].Issues, 2)
		assert.Equal(t, domain.StateTypeCompleted, data.Milestones[0].Issues[0].StateType)
	})

	t.Run("normalizes issues", func(t *testing.T) {
		first, second, third := data.Issues[0], data.Issues[1], data.Issues[2]

		assert.Equal(t, domain.PriorityHigh, first.Priority)
		require.NotNil(t, first.Estimate)
		assert.Equal(t, 3.0, *first.Estimate)
		require.NotNil(t, first.Cycle)
		assert.Equal(t, 4, first.Cycle.Number)
		assert.Len(t, first.Labels, 1, "duplicate label names collapse")
		require.NotNil(t, first.Milestone)
		assert.Equal(t, "Beta", first.Milestone.Name)

		assert.Equal(t, domain.PriorityNone, second.Priority, "fractional priority")
		assert.Nil(t, second.Estimate, "negative estimate")
		assert.Nil(t, second.Cycle)
		assert.Nil(t, second.Milestone)

		assert.Equal(t, domain.PriorityNone, third.Priority, "null priority")
		assert.Nil(t, third.Estimate)
		assert.Empty(t, third.Labels)
	})
}

func TestGetProjectIssues_NoFilter(t *testing.T) {
	srv, requests := newTestServer(t, func(gqlRequest) (int, string) {
		return http.StatusOK, projectPage2
	})
	c := newTestClient(t, srv.URL)

	_, err := c.GetProjectIssues(context.Background(), "p1", nil, []string{})
	require.NoError(t, err)
	assert.Nil(t, (*requests)[0].Variables["filter"])
}

func TestGetProjectIssues_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
			return http.StatusOK, `{"data":null,"errors":[{"message":"Entity not found: Project"}]}`
		})
		_, err := newTestClient(t, srv.URL).GetProjectIssues(context.Background(), "nope", nil, nil)
		assert.ErrorIs(t, err, ErrNotFound)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "project issues", apiErr.Resource)
	})

	t.Run("null project", func(t *testing.T) {
		srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
			return http.StatusOK, `{"data":{"project":null}}`
		})
		_, err := newTestClient(t, srv.URL).GetProjectIssues(context.Background(), "nope", nil, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("auth", func(t *testing.T) {
		srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
			return http.StatusBadRequest, `{"errors":[{"message":"Authentication required, not authenticated"}]}`
		})
		_, err := newTestClient(t, srv.URL).GetProjectIssues(context.Background(), "p1", nil, nil)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
		if calls.Add(1) == 1 {
			return http.StatusTooManyRequests, `too many`
		}
		return http.StatusOK, projectPage2
	})

	data, err := newTestClient(t, srv.URL).GetProjectIssues(context.Background(), "p1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, data.Issues, 1)
	assert.EqualValues(t, 2, calls.Load())
}

func TestRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
		calls.Add(1)
		return http.StatusOK, `{"errors":[{"message":"Rate limit exceeded","extensions":{"code":"RATELIMITED"}}]}`
	})

	_, err := newTestClient(t, srv.URL).GetProjectIssues(context.Background(), "p1", nil, nil)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualValues(t, 3, calls.Load(), "initial attempt plus two retries")
}

func TestRetryHonoursContext(t *testing.T) {
	srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
		return http.StatusTooManyRequests, `slow down`
	})
	c, err := New(srv.URL, "lin_api_test", WithRetryDelays(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.GetProjectIssues(ctx, "p1", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
				return tt.status, `<html>nope</html>`
			})
			c, err := New(srv.URL, "lin_api_test", WithRetryDelays())
			require.NoError(t, err)

			_, err = c.ListProjects(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.NotContains(t, err.Error(), "decoding response")
		})
	}

	t.Run("custom http client is wrapped", func(t *testing.T) {
		srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
			return http.StatusTooManyRequests, `slow down`
		})
		hc := &http.Client{Timeout: time.Second}
		c, err := New(srv.URL, "lin_api_test", WithHTTPClient(hc), WithRetryDelays())
		require.NoError(t, err)

		_, err = c.ListProjects(context.Background())
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Nil(t, hc.Transport, "caller's client is not modified")
	})
}

func TestGetTeamLabels(t *testing.T) {
	t.Run("first team", func(t *testing.T) {
		srv, _ := newTestServer(t, func(req gqlRequest) (int, string) {
			assert.True(t, strings.Contains(req.Query, "teams(first: 1)"))
			return http.StatusOK, `{"data":{"project":{"teams":{"nodes":[{"labels":{"nodes":[
				{"name":"bug","color":"#eb5757"},{"name":"feature","color":"#bb87fc"}]}}]}}}}`
		})
		labels, err := newTestClient(t, srv.URL).GetTeamLabels(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, []domain.Label{{Name: "bug", Color: "#eb5757"}, {Name: "feature", Color: "#bb87fc"}}, labels)
	})

	t.Run("no teams", func(t *testing.T) {
		srv, _ := newTestServer(t, func(gqlRequest) (int, string) {
			return http.StatusOK, `{"data":{"project":{"teams":{"nodes":[]}}}}`
		})
		labels, err := newTestClient(t, srv.URL).GetTeamLabels(context.Background(), "p1")
		require.NoError(t, err)
		assert.Empty(t, labels)
	})
}

func TestListProjects(t *testing.T) {
	srv, requests := newTestServer(t, func(req gqlRequest) (int, string) {
		if req.Variables["after"] == "next" {
			return http.StatusOK, `{"data":{"projects":{"pageInfo":{"hasNextPage":false},"nodes":[{"id":"p3","name":"Gemini","state":"planned"}]}}}`
		}
		return http.StatusOK, `{"data":{"projects":{"pageInfo":{"hasNextPage":true,"endCursor":"next"},"nodes":[
			{"id":"p1","name":"Apollo","state":"started"},{"id":"p2","name":"Mercury","state":"completed"}]}}}`
	})

	projects, err := newTestClient(t, srv.URL).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, *requests, 2)
	assert.Equal(t, []domain.ProjectSummary{
		{ID: "p1", Name: "Apollo", State: "started"},
		{ID: "p2", Name: "Mercury", State: "completed"},
		{ID: "p3", Name: "Gemini", State: "planned"},
	}, projects)
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New("", "  ")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	c, err := New("", "key")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, c.url)
	assert.Equal(t, DefaultPageSize, c.pageSize)
}

func TestParseDate(t *testing.T) {
	assert.Nil(t, parseDate(""))
	assert.Nil(t, parseDate("not a date"))

	d := parseDate("2025-03-31")
	require.NotNil(t, d)
	assert.Equal(t, 31, d.Day())

	ts := parseDate("2025-03-31T14:05:00.000Z")
	require.NotNil(t, ts)
	assert.Equal(t, 14, ts.Hour())
}

func TestErrorClassification(t *testing.T) {
	assert.Nil(t, WrapError("get", "x", nil))
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsAuthError(nil))
	assert.True(t, IsRateLimited(errors.New("graphql: server returned a non-200 status code: 429")))
	assert.True(t, IsAuthError(errors.New("graphql: server returned a non-200 status code: 401")))
	assert.False(t, IsRateLimited(errors.New("graphql: server returned a non-200 status code: 500")))
}
