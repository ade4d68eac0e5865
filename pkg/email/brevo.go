package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBrevoBaseURL = "https://api.brevo.com/v3"

type BrevoProvider struct {
	apiKey     string
	baseURL    string
	sender     Address
	httpClient *http.Client
}

func NewBrevoProvider(apiKey, baseURL string, sender Address) *BrevoProvider {
	if baseURL == "" {
		baseURL = DefaultBrevoBaseURL
	}

	return &BrevoProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sender:     sender,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *BrevoProvider) Name() string { return "brevo" }

func (b *BrevoProvider) SendEmail(ctx context.Context, message *Message) (*SendResult, error) {
	if len(message.To) == 0 {
		return nil, errors.New("email message has no recipients")
	}

	payload := *message
	if payload.From == nil {
		sender := b.sender
		payload.From = &sender
	}

	body, status, err := b.do(ctx, http.MethodPost, "/smtp/email", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	var result SendResult
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to decode send response: %w", err)
		}
	}
	return &result, nil
}

// UpsertContact creates the contact or updates its lists and attributes when
// it already exists.
func (b *BrevoProvider) UpsertContact(ctx context.Context, contact *Contact) (*ContactResult, error) {
	payload := struct {
		*Contact
		UpdateEnabled bool `json:"updateEnabled"`
	}{Contact: contact, UpdateEnabled: true}

	body, status, err := b.do(ctx, http.MethodPost, "/contacts", payload)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusCreated:
		var created struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, fmt.Errorf("failed to decode contact response: %w", err)
		}
		return &ContactResult{ID: created.ID, Created: true}, nil
	case http.StatusNoContent:
		return &ContactResult{}, nil
	default:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}
}

func (b *BrevoProvider) do(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}
