// Package client is the Go SDK for the leads API. It validates forms before
// sending, checks every response against its JSON schema and classifies
// failures into the kinds callers react to.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

const (
	DefaultTimeout  = 10 * time.Second
	// DefaultPageSize is how many leads the list views request per refresh.
	DefaultPageSize = 200
	maxBodyBytes    = 4 << 20
)

type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	schemas    *schemaSet
}

type Option func(*Client)

// WithHTTPClient sends requests through hc. The client is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request, whatever the order of the options.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithBearerToken sends the identity provider's token on every request.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		schemas:    schemas,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

type ListOptions struct {
	Status string
	Limit  int
	Offset int
	// Email identifies the caller of MyLeads when the server runs without tokens.
	Email string
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Email != "" {
		q.Set("email", o.Email)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type LeadPage struct {
	Leads  []*entity.Lead `json:"leads"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// CreateLead submits the form. Invalid input is rejected locally with a
// ValidationFailure and never reaches the network.
func (c *Client) CreateLead(ctx context.Context, input usecase.CreateLeadInput) (*entity.Lead, error) {
	if errs := usecase.ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPost, "/leads", input, c.schemas.lead, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) ListLeads(ctx context.Context, opts ListOptions) (*LeadPage, error) {
	opts.Email = ""
	var page LeadPage
	if err := c.do(ctx, http.MethodGet, "/leads"+opts.query(), nil, c.schemas.leadList, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyLeads lists the leads of the authenticated identity, filtered by the server.
func (c *Client) MyLeads(ctx context.Context, opts ListOptions) (*LeadPage, error) {
	opts.Status = ""
	var page LeadPage
	if err := c.do(ctx, http.MethodGet, "/me/leads"+opts.query(), nil, c.schemas.leadList, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetLead(ctx context.Context, leadID string) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(leadID), nil, c.schemas.lead, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) UpdateStatus(ctx context.Context, leadID, status string) (*entity.Lead, error) {
	parsed, err := entity.ParseStatus(status)
	if err != nil {
		return nil, validationError([]usecase.ValidationError{{Field: "status", Message: "must be one of New, Contacted, Qualified, Lost, Won"}})
	}
	body := map[string]string{"status": string(parsed)}
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPatch, "/leads/"+url.PathEscape(leadID), body, c.schemas.lead, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) SendReply(ctx context.Context, leadID, message string, agent entity.Agent) (*entity.Reply, error) {
	input := usecase.SendReplyInput{Message: message, AgentEmail: agent.Email, AgentName: agent.Name}
	if errs := usecase.ValidateSendReplyInput(input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	input.Message = strings.TrimSpace(input.Message)

	var reply entity.Reply
	if err := c.do(ctx, http.MethodPost, "/leads/"+url.PathEscape(leadID)+"/replies", input, c.schemas.reply, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// FetchReplies returns the thread oldest first. It has no side effects.
func (c *Client) FetchReplies(ctx context.Context, leadID string) ([]*entity.Reply, error) {
	var out usecase.ListRepliesOutput
	if err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(leadID)+"/replies", nil, c.schemas.replyList, &out); err != nil {
		return nil, err
	}
	if out.Replies == nil {
		out.Replies = []*entity.Reply{}
	}
	return out.Replies, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, schema *jsonschema.Schema, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return statusError(resp.StatusCode, eb)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalidResponse(resp.StatusCode, err)
	}
	if err := schema.Validate(doc); err != nil {
		return invalidResponse(resp.StatusCode, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return invalidResponse(resp.StatusCode, err)
	}
	return nil
}

func invalidResponse(status int, err error) *Error {
	return &Error{Kind: RequestFailure, Status: status, Detail: "invalid response from server", Err: err}
}
