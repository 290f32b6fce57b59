// Package backend is the REST client for the upstream remote-monitoring
// backend. The backend owns all health data; this client only reads
// collections and forwards mutations, attaching the caller's bearer token
// to every request.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/pulsecare/patient-platform/internal/alerts"
	"github.com/pulsecare/patient-platform/internal/appointments"
	"github.com/pulsecare/patient-platform/internal/observability/metrics"
	"github.com/pulsecare/patient-platform/internal/schedule"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// ErrUnauthorized is returned on a 401 from the backend. The HTTP layer maps
// it straight back to a 401, which the dashboards treat as a global log-out.
var ErrUnauthorized = errors.New("backend: unauthorized")

type tokenKey struct{}

// WithToken stores the caller's bearer token on the context for outgoing
// backend requests.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the bearer token stored by WithToken.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the upstream monitoring backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
	metrics    *metrics.BackendMetrics
}

// NewClient creates a backend client.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     otel.Tracer("pulsecare.internal.backend"),
	}
}

// WithMetrics attaches request metrics.
func (c *Client) WithMetrics(m *metrics.BackendMetrics) *Client {
	c.metrics = m
	return c
}

// MedicationSchedule fetches the computed daily dose schedule.
func (c *Client) MedicationSchedule(ctx context.Context) (schedule.DailySchedule, error) {
	var out schedule.DailySchedule
	if err := c.do(ctx, http.MethodGet, "/email-test/medication-schedule", nil, nil, &out); err != nil {
		return schedule.DailySchedule{}, err
	}
	return out, nil
}

// ListAlerts fetches the alert feed.
func (c *Client) ListAlerts(ctx context.Context) ([]alerts.Alert, error) {
	var out struct {
		Data []alerts.Alert `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/alerts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// MarkAlertRead marks one alert read.
func (c *Client) MarkAlertRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/alerts/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// MarkAllAlertsRead marks the whole feed read.
func (c *Client) MarkAllAlertsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/alerts/read-all", nil, nil, nil)
}

// DeleteAlert removes one alert.
func (c *Client) DeleteAlert(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/alerts/"+url.PathEscape(id), nil, nil, nil)
}

// ClearAlerts removes the whole feed.
func (c *Client) ClearAlerts(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/alerts", nil, nil, nil)
}

// ListAppointments fetches appointments with the upstream's filter params.
func (c *Client) ListAppointments(ctx context.Context, params appointments.ListParams) ([]appointments.Appointment, error) {
	q := url.Values{}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Past {
		q.Set("past", "true")
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	var out struct {
		Data []appointments.Appointment `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointments", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateAppointment submits a draft appointment.
func (c *Client) CreateAppointment(ctx context.Context, draft appointments.Draft) (appointments.Appointment, error) {
	var out struct {
		Data appointments.Appointment `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, draft, &out); err != nil {
		return appointments.Appointment{}, err
	}
	return out.Data, nil
}

// UpdateAppointment edits or cancels an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, update appointments.Update) (appointments.Appointment, error) {
	var out struct {
		Data appointments.Appointment `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id), nil, update, &out); err != nil {
		return appointments.Appointment{}, err
	}
	return out.Data, nil
}

// AvailableDoctors fetches the provider directory snapshot.
func (c *Client) AvailableDoctors(ctx context.Context) ([]appointments.Doctor, error) {
	var out struct {
		Doctors []appointments.Doctor `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointments/available-doctors", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

// do issues one backend request. path must be the bare route since it names
// the span and labels request metrics; query carries any encoded parameters.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	ctx, span := c.tracer.Start(ctx, "backend."+method+" "+path)
	defer span.End()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveRequest(method, path, 0, time.Since(start).Seconds())
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(method, path, resp.StatusCode, time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("backend: status %d: %s", resp.StatusCode, msg)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("backend: unmarshal response: %w", err)
	}
	return nil
}
