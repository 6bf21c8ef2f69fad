package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.airtable.com/v0"

	// Airtable rejects create/delete batches larger than this
	maxBatchSize = 10
	pageSize     = 100
)

// Config holds the connection settings of one base
type Config struct {
	APIKey     string
	BaseID     string
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client talks to the Airtable REST API
type Client struct {
	http   *resty.Client
	baseID string
}

// New creates a client for one base
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// 429 is the per-base rate limit
			return r != nil && r.StatusCode() == http.StatusTooManyRequests
		})

	return &Client{
		http:   httpClient,
		baseID: cfg.BaseID,
	}
}

// Table returns a handle to a named collection of the base
func (c *Client) Table(name string) recordstore.Table {
	return &Table{client: c, name: name}
}

// Ping lists a single record of a table to check credentials and base id
func (c *Client) Ping(ctx context.Context, table string) error {
	_, err := c.list(ctx, table, url.Values{"pageSize": {"1"}})
	return err
}

type apiRecord struct {
	ID          string             `json:"id"`
	Fields      recordstore.Fields `json:"fields"`
	CreatedTime time.Time          `json:"createdTime"`
}

func (r apiRecord) toRecord() recordstore.Record {
	fields := r.Fields
	if fields == nil {
		fields = recordstore.Fields{}
	}
	return recordstore.Record{
		ID:          kernel.RecordID(r.ID),
		Fields:      fields,
		CreatedTime: r.CreatedTime,
	}
}

type listResponse struct {
	Records []apiRecord `json:"records"`
	Offset  string      `json:"offset"`
}

type recordsPayload struct {
	Records []fieldsPayload `json:"records"`
}

type fieldsPayload struct {
	Fields recordstore.Fields `json:"fields"`
}

type deleteResponse struct {
	Records []struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
	} `json:"records"`
}

// apiError covers both shapes Airtable uses for errors
type apiError struct {
	Error json.RawMessage `json:"error"`
}

func (c *Client) request(ctx context.Context, table string) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"base":  c.baseID,
			"table": table,
		})
}

func (c *Client) check(resp *resty.Response, err error, table, op string) error {
	if err != nil {
		return recordstore.ErrRegistry.NewWithCause(recordstore.CodeRequestFailed, err).
			WithDetail("table", table).
			WithDetail("operation", op)
	}
	if !resp.IsError() {
		return nil
	}

	if resp.StatusCode() == http.StatusNotFound {
		return recordstore.ErrRecordNotFound().
			WithDetail("table", table).
			WithDetail("operation", op)
	}

	var body apiError
	_ = json.Unmarshal(resp.Body(), &body)

	return recordstore.ErrRequestFailed().
		WithDetail("table", table).
		WithDetail("operation", op).
		WithDetail("status", resp.StatusCode()).
		WithDetail("error", string(body.Error))
}

func (c *Client) list(ctx context.Context, table string, query url.Values) ([]recordstore.Record, error) {
	records := make([]recordstore.Record, 0)
	offset := ""

	for {
		params := url.Values{}
		for k, v := range query {
			params[k] = v
		}
		if params.Get("pageSize") == "" {
			params.Set("pageSize", fmt.Sprint(pageSize))
		}
		if offset != "" {
			params.Set("offset", offset)
		}

		var out listResponse
		resp, err := c.request(ctx, table).
			SetQueryParamsFromValues(params).
			SetResult(&out).
			Get("/{base}/{table}")
		if err := c.check(resp, err, table, "list"); err != nil {
			return nil, err
		}

		for _, r := range out.Records {
			records = append(records, r.toRecord())
		}

		// A pageSize of 1 is a reachability check; stop after the first page
		if out.Offset == "" || query.Get("pageSize") != "" {
			return records, nil
		}
		offset = out.Offset
		logx.Debugf("airtable: fetched %d records from %s, following offset", len(records), table)
	}
}

// Table is one Airtable table
type Table struct {
	client *Client
	name   string
}

func (t *Table) Name() string { return t.name }

func (t *Table) Get(ctx context.Context, id kernel.RecordID) (*recordstore.Record, error) {
	var out apiRecord
	resp, err := t.client.request(ctx, t.name).
		SetPathParam("id", id.String()).
		SetResult(&out).
		Get("/{base}/{table}/{id}")
	if err := t.client.check(resp, err, t.name, "get"); err != nil {
		return nil, err
	}

	rec := out.toRecord()
	return &rec, nil
}

func (t *Table) First(ctx context.Context, filter recordstore.Filter) (*recordstore.Record, error) {
	query := url.Values{"maxRecords": {"1"}}
	if filter != nil {
		query.Set("filterByFormula", filter.Formula())
	}

	records, err := t.client.list(ctx, t.name, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (t *Table) All(ctx context.Context, filter recordstore.Filter) ([]recordstore.Record, error) {
	query := url.Values{}
	if filter != nil {
		query.Set("filterByFormula", filter.Formula())
	}
	return t.client.list(ctx, t.name, query)
}

func (t *Table) Create(ctx context.Context, fields recordstore.Fields) (*recordstore.Record, error) {
	var out apiRecord
	resp, err := t.client.request(ctx, t.name).
		SetBody(fieldsPayload{Fields: fields}).
		SetResult(&out).
		Post("/{base}/{table}")
	if err := t.client.check(resp, err, t.name, "create"); err != nil {
		return nil, err
	}

	rec := out.toRecord()
	return &rec, nil
}

func (t *Table) Update(ctx context.Context, id kernel.RecordID, fields recordstore.Fields) (*recordstore.Record, error) {
	var out apiRecord
	resp, err := t.client.request(ctx, t.name).
		SetPathParam("id", id.String()).
		SetBody(fieldsPayload{Fields: fields}).
		SetResult(&out).
		Patch("/{base}/{table}/{id}")
	if err := t.client.check(resp, err, t.name, "update"); err != nil {
		return nil, err
	}

	rec := out.toRecord()
	return &rec, nil
}

func (t *Table) BatchCreate(ctx context.Context, fields []recordstore.Fields) ([]recordstore.Record, error) {
	created := make([]recordstore.Record, 0, len(fields))

	for start := 0; start < len(fields); start += maxBatchSize {
		end := min(start+maxBatchSize, len(fields))

		payload := recordsPayload{Records: make([]fieldsPayload, 0, end-start)}
		for _, f := range fields[start:end] {
			payload.Records = append(payload.Records, fieldsPayload{Fields: f})
		}

		var out listResponse
		resp, err := t.client.request(ctx, t.name).
			SetBody(payload).
			SetResult(&out).
			Post("/{base}/{table}")
		if err := t.client.check(resp, err, t.name, "batch_create"); err != nil {
			return created, err
		}

		for _, r := range out.Records {
			created = append(created, r.toRecord())
		}
	}

	return created, nil
}

func (t *Table) BatchDelete(ctx context.Context, ids []kernel.RecordID) error {
	for start := 0; start < len(ids); start += maxBatchSize {
		end := min(start+maxBatchSize, len(ids))

		params := url.Values{}
		for _, id := range ids[start:end] {
			params.Add("records[]", id.String())
		}

		var out deleteResponse
		resp, err := t.client.request(ctx, t.name).
			SetQueryParamsFromValues(params).
			SetResult(&out).
			Delete("/{base}/{table}")
		if err := t.client.check(resp, err, t.name, "batch_delete"); err != nil {
			return err
		}
	}

	return nil
}
