package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	restPath         = "/rest/v1/"
	singleObjectType = "application/vnd.pgrst.object+json"

	// noRowsCode is PostgREST's code for a single-object request that matched
	// zero or several rows.
	noRowsCode = "PGRST116"
)

// Client talks to the PostgREST API of a Supabase project.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Error is the error body PostgREST returns for a failed request.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error returns the store's message unchanged so callers can surface it.
func (e *Error) Error() string {
	return e.Message
}

// NoRows reports whether a single-object select matched nothing.
func (e *Error) NoRows() bool {
	return e.Code == noRowsCode && strings.Contains(e.Details, "0 rows")
}

// Filter is a horizontal filter such as id=eq.5.
type Filter struct {
	Column   string
	Operator string
	Value    string
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Operator: "eq", Value: fmt.Sprint(value)}
}

// Query describes a select against one table.
type Query struct {
	Columns string
	Filters []Filter
	// Order lists columns sorted ascending, most significant first.
	Order []string
	// Single asks for exactly one row; zero rows yields an Error with NoRows.
	Single bool
}

func (c *Client) Select(ctx context.Context, table string, q Query, target any) error {
	params := filterParams(q.Filters)
	if q.Columns != "" {
		params.Set("select", q.Columns)
	}
	if len(q.Order) > 0 {
		terms := make([]string, len(q.Order))
		for i, column := range q.Order {
			terms[i] = column + ".asc"
		}
		params.Set("order", strings.Join(terms, ","))
	}

	header := http.Header{}
	if q.Single {
		header.Set("Accept", singleObjectType)
	}
	return c.do(ctx, http.MethodGet, table, params, header, nil, target)
}

// Insert creates row and decodes the created records into target.
func (c *Client) Insert(ctx context.Context, table string, row any, target any) error {
	header := http.Header{}
	header.Set("Prefer", "return=representation")
	return c.do(ctx, http.MethodPost, table, url.Values{}, header, row, target)
}

// Update overwrites the columns present in row on every record matching
// filters and decodes the updated records into target.
func (c *Client) Update(ctx context.Context, table string, filters []Filter, row any, target any) error {
	header := http.Header{}
	header.Set("Prefer", "return=representation")
	return c.do(ctx, http.MethodPatch, table, filterParams(filters), header, row, target)
}

func (c *Client) Delete(ctx context.Context, table string, filters []Filter) error {
	header := http.Header{}
	header.Set("Prefer", "return=minimal")
	return c.do(ctx, http.MethodDelete, table, filterParams(filters), header, nil, nil)
}

// Ping checks that the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "", url.Values{}, http.Header{}, nil, nil)
}

func filterParams(filters []Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		params.Add(f.Column, f.Operator+"."+f.Value)
	}
	return params
}

func (c *Client) do(ctx context.Context, method, table string, params url.Values, header http.Header, body any, target any) error {
	u := c.baseURL + restPath + table
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	apiErr := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}
	return apiErr
}
