package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSubmitter(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var received Program
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			resp := Response{
				Results: []SolveResult{{
					Status:         "OK",
					SolutionStatus: "OPTIMAL",
					Objective:      42,
					Primal:         []PrimalRow{{Name: "x", Value: 7}},
				}},
				Log: "NOTE: done",
			}
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer server.Close()

		sub := NewHTTPSubmitter(server.URL, server.Client())
		resp, err := sub.Submit(context.Background(), Program{
			Name:   "prod",
			Format: FormatOptmodel,
			Text:   "proc optmodel;\nquit;",
		})
		require.NoError(t, err)

		assert.Equal(t, "prod", received.Name)
		assert.Equal(t, FormatOptmodel, received.Format)
		assert.Contains(t, received.Text, "proc optmodel;")

		require.Len(t, resp.Results, 1)
		assert.Equal(t, "OPTIMAL", resp.Results[0].SolutionStatus)
		assert.Equal(t, 42.0, resp.Results[0].Objective)
		assert.Equal(t, "NOTE: done", resp.Log)
	})

	t.Run("non-200 status surfaces the body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "engine busy", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		sub := NewHTTPSubmitter(server.URL, server.Client())
		_, err := sub.Submit(context.Background(), Program{Name: "p"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine busy")
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		sub := NewHTTPSubmitter(server.URL, server.Client())
		_, err := sub.Submit(context.Background(), Program{Name: "p"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode engine response")
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sub := NewHTTPSubmitter(server.URL, server.Client())
		_, err := sub.Submit(ctx, Program{Name: "p"})
		require.Error(t, err)
	})
}

func TestResponseResult(t *testing.T) {
	resp := &Response{Results: []SolveResult{{SolutionStatus: "OPTIMAL"}, {SolutionStatus: "INFEASIBLE"}}}

	first, ok := resp.Result(0)
	require.True(t, ok)
	assert.Equal(t, "OPTIMAL", first.SolutionStatus)

	second, ok := resp.Result(1)
	require.True(t, ok)
	assert.Equal(t, "INFEASIBLE", second.SolutionStatus)

	_, ok = resp.Result(2)
	assert.False(t, ok)
	_, ok = resp.Result(-1)
	assert.False(t, ok)
}
