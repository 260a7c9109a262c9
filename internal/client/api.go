package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edgepay/edgepay-gobackend/internal/models"
)

// APIError is a failure envelope returned by the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// CreateLinkPayload is the body of a create request. The server assigns
// id, status and timestamps.
type CreateLinkPayload struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ExpiresAt   *int64  `json:"expiresAt,omitempty"`
}

// ListData is the payload of a successful list response.
type ListData struct {
	Items []models.PaymentLink `json:"items"`
	Next  *string              `json:"next,omitempty"`
}

// DeleteData is the payload of a successful delete response.
type DeleteData struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Client calls the payment-link API and unwraps its response envelope.
type Client struct {
	baseURL       string
	publicBaseURL string
	http          *http.Client
}

func New(baseURL string, publicBaseURL string) *Client {
	if publicBaseURL == "" {
		publicBaseURL = baseURL
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		http:          &http.Client{Timeout: 10 * time.Second},
	}
}

// ShareURL builds the public payment page URL for a link.
func (c *Client) ShareURL(id string) string {
	return c.publicBaseURL + "/pay/" + id
}

func (c *Client) ListLinks(ctx context.Context) ([]models.PaymentLink, error) {
	var data ListData
	if err := c.do(ctx, http.MethodGet, "/api/payment-links", nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

func (c *Client) CreateLink(ctx context.Context, payload CreateLinkPayload) (models.PaymentLink, error) {
	var link models.PaymentLink
	err := c.do(ctx, http.MethodPost, "/api/payment-links", payload, &link)
	return link, err
}

func (c *Client) GetLink(ctx context.Context, id string) (models.PaymentLink, error) {
	var link models.PaymentLink
	err := c.do(ctx, http.MethodGet, "/api/payment-links/"+id, nil, &link)
	return link, err
}

func (c *Client) GetPublicLink(ctx context.Context, id string) (models.PaymentLink, error) {
	var link models.PaymentLink
	err := c.do(ctx, http.MethodGet, "/api/public/links/"+id, nil, &link)
	return link, err
}

func (c *Client) PayLink(ctx context.Context, id string) (models.PaymentLink, error) {
	var link models.PaymentLink
	err := c.do(ctx, http.MethodPost, "/api/public/links/"+id+"/pay", nil, &link)
	return link, err
}

func (c *Client) DeleteLink(ctx context.Context, id string) error {
	var data DeleteData
	return c.do(ctx, http.MethodDelete, "/api/payment-links/"+id, nil, &data)
}

// do sends one request and decodes the `{success, data?, error?}`
// envelope into out. A `success: false` body becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
