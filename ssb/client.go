package ssb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/retry"
)

// DefaultBaseURL is the English-language endpoint of the PxWeb API v0.
const DefaultBaseURL = "https://data.ssb.no/api/v0/en"

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 << 20

// Client talks to the Statistics Norway PxWeb API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      retry.Config
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryConfig sets the retry policy for transient request failures.
func WithRetryConfig(cfg retry.Config) ClientOption {
	return func(c *Client) {
		c.retry = cfg
	}
}

// NewClient creates a PxWeb API client with a 30 second request timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		retry:   retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// tableQuery is the PxWeb POST body.
type tableQuery struct {
	Query    []queryClause `json:"query"`
	Response queryFormat   `json:"response"`
}

type queryClause struct {
	Code      string         `json:"code"`
	Selection querySelection `json:"selection"`
}

type querySelection struct {
	Filter string   `json:"filter"`
	Values []string `json:"values"`
}

type queryFormat struct {
	Format string `json:"format"`
}

// householdBudgetQuery selects expenditure in NOK for the given category
// codes and year, answered as json-stat2.
func householdBudgetQuery(period string, codes []string) tableQuery {
	return tableQuery{
		Query: []queryClause{
			{Code: dimCategory, Selection: querySelection{Filter: "item", Values: codes}},
			{Code: "ContentsCode", Selection: querySelection{Filter: "item", Values: []string{"Utgift"}}},
			{Code: dimTime, Selection: querySelection{Filter: "item", Values: []string{period}}},
		},
		Response: queryFormat{Format: "json-stat2"},
	}
}

// FetchHouseholdBudget queries the household budget table for all main
// category groups in the given period and returns the parsed dataset.
// Transient failures (network errors, 5xx, 429) are retried per the
// client's retry config; the final failure is wrapped in *FetchError.
func (c *Client) FetchHouseholdBudget(ctx context.Context, tableID, period string) (*Dataset, error) {
	q := householdBudgetQuery(period, MainCategoryCodes)

	payload, err := retry.Do(ctx, c.retry, func() ([]byte, error) {
		return c.postQuery(ctx, tableID, q)
	})
	if err != nil {
		return nil, &FetchError{TableID: tableID, Err: err}
	}

	return parseHouseholdDataset(tableID, payload, time.Now())
}

func (c *Client) postQuery(ctx context.Context, tableID string, q tableQuery) ([]byte, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, ai.NewPermanentError("ssb: encode query", 0, err)
	}

	url := c.baseURL + "/table/" + tableID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, ai.NewPermanentError("ssb: build request", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ai.NewTransientError("ssb: request failed", 0, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, ai.NewTransientError("ssb: read response", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return payload, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, ai.NewTransientError(fmt.Sprintf("ssb: server error %d", resp.StatusCode), resp.StatusCode, nil)
	default:
		return nil, ai.NewPermanentError(fmt.Sprintf("ssb: request rejected %d", resp.StatusCode), resp.StatusCode, nil)
	}
}

// TableMetadata describes a published table: its title and query variables.
type TableMetadata struct {
	Title     string          `json:"title"`
	Variables []TableVariable `json:"variables"`
}

// TableVariable is one queryable dimension of a table.
type TableVariable struct {
	Code       string   `json:"code"`
	Text       string   `json:"text"`
	Values     []string `json:"values"`
	ValueTexts []string `json:"valueTexts"`
}

// FetchTableMetadata retrieves a table's metadata (GET on the table URL).
func (c *Client) FetchTableMetadata(ctx context.Context, tableID string) (*TableMetadata, error) {
	url := c.baseURL + "/table/" + tableID

	payload, err := retry.Do(ctx, c.retry, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, ai.NewPermanentError("ssb: build request", 0, err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, ai.NewTransientError("ssb: request failed", 0, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, ai.NewTransientError("ssb: read response", resp.StatusCode, err)
		}
		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 500 {
				return nil, ai.NewTransientError(fmt.Sprintf("ssb: server error %d", resp.StatusCode), resp.StatusCode, nil)
			}
			return nil, ai.NewPermanentError(fmt.Sprintf("ssb: request rejected %d", resp.StatusCode), resp.StatusCode, nil)
		}
		return body, nil
	})
	if err != nil {
		return nil, &FetchError{TableID: tableID, Err: err}
	}

	var meta TableMetadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, &ParseError{TableID: tableID, Reason: "invalid metadata JSON", Err: err}
	}
	return &meta, nil
}
