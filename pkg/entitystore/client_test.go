package entitystore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidepagano/storeops-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.EntityStoreConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return client, server
}

func TestListSendsSortAndLimit(t *testing.T) {
	var gotPath, gotSort, gotLimit, gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSort = r.URL.Query().Get("sort")
		gotLimit = r.URL.Query().Get("limit")
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"data":[{"id":"a"},{"id":"b"}]}`)
	}))

	records, err := client.List(context.Background(), "OrderItem", ListOptions{Sort: "-modifiedDate", Limit: 10000})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "/api/entities/OrderItem", gotPath)
	require.Equal(t, "-modifiedDate", gotSort)
	require.Equal(t, "10000", gotLimit)
	require.Equal(t, "Bearer test-key", gotAuth)
}

func TestListFailsOnUnrecognizedShape(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"records":[]}`)
	}))

	_, err := client.List(context.Background(), "Store", ListOptions{})
	require.ErrorIs(t, err, ErrUnrecognizedShape)
}

func TestListFailsOnServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, err := client.List(context.Background(), "Store", ListOptions{})
	require.ErrorContains(t, err, "502")
}

func TestFilterPostsCriteria(t *testing.T) {
	var gotCriteria map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/entities/DailyStoreRevenue/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCriteria))
		io.WriteString(w, `[{"id":"rev-1"}]`)
	}))

	records, err := client.Filter(context.Background(), "DailyStoreRevenue", map[string]any{
		"store_id": "s1",
		"date":     "2026-08-29",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "s1", gotCriteria["store_id"])
	require.Equal(t, "2026-08-29", gotCriteria["date"])
}

func TestCreateAndUpdateTargetExpectedEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.Path})
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{}`)
	}))

	require.NoError(t, client.Create(context.Background(), "DailyStoreRevenue", map[string]any{"store_id": "s1"}))
	require.NoError(t, client.Update(context.Background(), "DailyStoreRevenue", "rev-1", map[string]any{"store_id": "s1"}))

	require.Equal(t, []call{
		{method: http.MethodPost, path: "/api/entities/DailyStoreRevenue"},
		{method: http.MethodPut, path: "/api/entities/DailyStoreRevenue/rev-1"},
	}, calls)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.EntityStoreConfig{})
	require.Error(t, err)
}
