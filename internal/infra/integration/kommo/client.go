package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

var errContactNotFound = errors.New("kommo contact not found")

// Client mirrors enriched leads into a Kommo pipeline.
type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
}

func NewClient(apiToken, baseURL string, statusID int) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		statusID:   statusID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// MirrorLead creates a Kommo lead linked to the contact with the lead's email,
// creating the contact first when none exists.
func (c *Client) MirrorLead(ctx context.Context, lead *entity.Lead) error {
	if c.apiToken == "" {
		return errors.New("kommo is not configured")
	}

	contactID, err := c.findOrCreateContact(ctx, lead)
	if err != nil {
		return fmt.Errorf("failed to resolve kommo contact: %w", err)
	}

	payload := leadPayload{Name: lead.Name, StatusID: c.statusID}
	payload.Embedded.Tags = []tag{{Name: "lang_" + string(lead.Language)}}
	if lead.Tag != nil {
		payload.Name = fmt.Sprintf("%s - %s", lead.Name, *lead.Tag)
		payload.Embedded.Tags = append(payload.Embedded.Tags, tag{Name: string(*lead.Tag)})
	}
	payload.Embedded.Contacts = []contactRef{{ID: contactID}}

	var result embeddedLeads
	if err := c.do(ctx, http.MethodPost, "/leads", []leadPayload{payload}, &result); err != nil {
		return fmt.Errorf("failed to create kommo lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return errors.New("kommo returned no lead")
	}

	slog.Info("lead mirrored to kommo", "lead_id", lead.ID, "kommo_id", result.Embedded.Leads[0].ID)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, lead *entity.Lead) (int, error) {
	id, err := c.findContact(ctx, lead.Email)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, errContactNotFound) {
		return 0, err
	}
	return c.createContact(ctx, lead)
}

func (c *Client) findContact(ctx context.Context, query string) (int, error) {
	var result embeddedContacts
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(query), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errContactNotFound
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, lead *entity.Lead) (int, error) {
	contact := contactPayload{
		Name: lead.Name,
		CustomFieldsValues: []customField{
			{FieldCode: "PHONE", Values: []fieldValue{{Value: lead.Phone, EnumCode: "WORK"}}},
			{FieldCode: "EMAIL", Values: []fieldValue{{Value: lead.Email, EnumCode: "WORK"}}},
		},
	}

	var result embeddedContacts
	if err := c.do(ctx, http.MethodPost, "/contacts", []contactPayload{contact}, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo returned no contact")
	}
	return result.Embedded.Contacts[0].ID, nil
}

// do sends a JSON request. Kommo answers 204 to searches without matches.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
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
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("kommo %s %s: status %d - %s", method, path, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
