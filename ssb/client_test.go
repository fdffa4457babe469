package ssb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perolav/grunnlag/retry"
)

func TestClientFetchHouseholdBudget(t *testing.T) {
	payload := testPayload(t, "2012", map[string]float64{"01": 78520, "04": 182808})

	var got tableQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/table/10235", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(retry.Disabled()))
	ds, err := c.FetchHouseholdBudget(context.Background(), TableHouseholdBudget, "2012")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "2012", ds.Period)

	// The query selects every main group, expenditure in NOK, one year.
	require.Len(t, got.Query, 3)
	assert.Equal(t, dimCategory, got.Query[0].Code)
	assert.Equal(t, MainCategoryCodes, got.Query[0].Selection.Values)
	assert.Equal(t, "ContentsCode", got.Query[1].Code)
	assert.Equal(t, []string{"Utgift"}, got.Query[1].Selection.Values)
	assert.Equal(t, dimTime, got.Query[2].Code)
	assert.Equal(t, []string{"2012"}, got.Query[2].Selection.Values)
	assert.Equal(t, "json-stat2", got.Response.Format)
}

func TestClientRetriesServerErrors(t *testing.T) {
	payload := testPayload(t, "2012", map[string]float64{"01": 78520})

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	cfg := retry.Config{MaxAttempts: 3, InitialDelay: 0, MaxDelay: 0, Multiplier: 1}
	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(cfg))

	ds, err := c.FetchHouseholdBudget(context.Background(), TableHouseholdBudget, "2012")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such table", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := retry.Config{MaxAttempts: 3, InitialDelay: 0, MaxDelay: 0, Multiplier: 1}
	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(cfg))

	ds, err := c.FetchHouseholdBudget(context.Background(), "99999", "2012")
	assert.Nil(t, ds)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "99999", fetchErr.TableID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientExhaustedRetriesReturnFetchError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := retry.Config{MaxAttempts: 2, InitialDelay: 0, MaxDelay: 0, Multiplier: 1}
	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(cfg))

	_, err := c.FetchHouseholdBudget(context.Background(), TableHouseholdBudget, "2012")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, IsUnrecoverable(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientFetchTableMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/table/10235", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"title": "Expenditure per household, by commodity and service group",
			"variables": [
				{"code": "Forbruksundersok", "text": "commodity and service group",
				 "values": ["01", "04"], "valueTexts": ["Food", "Housing"]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(retry.Disabled()))
	meta, err := c.FetchTableMetadata(context.Background(), TableHouseholdBudget)
	require.NoError(t, err)
	assert.Contains(t, meta.Title, "Expenditure per household")
	require.Len(t, meta.Variables, 1)
	assert.Equal(t, dimCategory, meta.Variables[0].Code)
	assert.Equal(t, []string{"01", "04"}, meta.Variables[0].Values)
}
