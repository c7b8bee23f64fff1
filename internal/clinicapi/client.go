// Package clinicapi is the HTTP client for the clinic backend this gateway
// fronts. The backend owns all persistence and authorization; this client
// only shuttles JSON and forwards the caller's session token.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"clinic-booking-gateway/internal/booking"
	"clinic-booking-gateway/internal/session"
)

// Doctor is the subset of a doctor record the booking flow needs.
type Doctor struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Specialty string `json:"specialty,omitempty"`
}

// APIError is a non-2xx response from the backend, carrying the backend's
// own message when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("clinic api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("clinic api: request failed with status %d", e.StatusCode)
}

// responseData mirrors the backend's response envelope.
type responseData struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client talks to the clinic backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAvailableSlots returns the raw bookable slot strings for a doctor.
// A doctor with no open slots yields an empty list, not an error.
func (c *Client) FetchAvailableSlots(ctx context.Context, doctorID int) ([]string, error) {
	var slots []string
	path := fmt.Sprintf("/api/v1/appointments/available-slots?doctorId=%d", doctorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// SubmitAppointment creates an appointment from a completed selection.
func (c *Client) SubmitAppointment(ctx context.Context, req booking.CreateAppointmentRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/appointments", req, nil)
}

// ListDoctors fetches the doctors a patient can book with.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/doctors", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, ok := session.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clinic api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("clinic api: read response: %w", err)
	}

	var envelope responseData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("decode response envelope: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		msg := envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
		c.log.Warn("clinic api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
