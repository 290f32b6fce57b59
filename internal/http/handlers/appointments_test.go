package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecare/patient-platform/internal/appointments"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

type stubBackend struct {
	appts   []appointments.Appointment
	doctors []appointments.Doctor
	created *appointments.Appointment
	updates map[string]appointments.Update
}

func (s *stubBackend) ListAppointments(context.Context, appointments.ListParams) ([]appointments.Appointment, error) {
	return s.appts, nil
}

func (s *stubBackend) CreateAppointment(_ context.Context, draft appointments.Draft) (appointments.Appointment, error) {
	created := appointments.Appointment{
		ID:         "created-1",
		Status:     "pending",
		DateTime:   draft.DateTime,
		ProviderID: draft.ProviderID,
		Reason:     draft.Reason,
		CreatedAt:  time.Now(),
	}
	s.created = &created
	s.appts = append(s.appts, created)
	return created, nil
}

func (s *stubBackend) UpdateAppointment(_ context.Context, id string, update appointments.Update) (appointments.Appointment, error) {
	if s.updates == nil {
		s.updates = make(map[string]appointments.Update)
	}
	s.updates[id] = update
	for _, a := range s.appts {
		if a.ID == id {
			a.Status = update.Status
			return a, nil
		}
	}
	return appointments.Appointment{ID: id, Status: update.Status}, nil
}

func (s *stubBackend) AvailableDoctors(context.Context) ([]appointments.Doctor, error) {
	return s.doctors, nil
}

func appointmentsTestServer(h *AppointmentsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/appointments", h.List)
	r.Get("/api/appointments/current", h.Current)
	r.Get("/api/appointments/past", h.Past)
	r.Post("/api/appointments", h.Create)
	r.Post("/api/appointments/{appointmentID}/cancel", h.Cancel)
	r.Get("/api/doctors", h.Doctors)
	return r
}

func TestAppointmentBuckets(t *testing.T) {
	be := &stubBackend{appts: []appointments.Appointment{
		{ID: "a1", Status: "pending", DateTime: time.Now().Add(24 * time.Hour)},
		{ID: "a2", Status: "completed", DateTime: time.Now().Add(-24 * time.Hour)},
	}}
	h := NewAppointmentsHandler(be, time.Millisecond, logging.New("error"))
	srv := appointmentsTestServer(h)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/current", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp struct {
		Appointments []appointments.Appointment `json:"appointments"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Appointments) != 1 || resp.Appointments[0].ID != "a1" {
		t.Fatalf("unexpected current bucket: %#v", resp.Appointments)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments/past", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Appointments) != 1 || resp.Appointments[0].ID != "a2" {
		t.Fatalf("unexpected past bucket: %#v", resp.Appointments)
	}
}

func TestAppointmentListResolvesProviderNames(t *testing.T) {
	be := &stubBackend{
		appts: []appointments.Appointment{
			{ID: "a1", Status: "pending", ProviderID: "d1", DateTime: time.Now()},
		},
		doctors: []appointments.Doctor{{ID: "d1", Name: "Dr. Chen"}},
	}
	h := NewAppointmentsHandler(be, time.Millisecond, logging.New("error"))
	srv := appointmentsTestServer(h)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp struct {
		Appointments []appointments.Appointment `json:"appointments"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Appointments) != 1 || resp.Appointments[0].ProviderName != "Dr. Chen" {
		t.Fatalf("unexpected resolution: %#v", resp.Appointments)
	}
}

func TestAppointmentCreateValidation(t *testing.T) {
	be := &stubBackend{}
	h := NewAppointmentsHandler(be, time.Millisecond, logging.New("error"))
	srv := appointmentsTestServer(h)

	// Missing provider and datetime never reaches the backend.
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{"reason":"Checkup"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if be.created != nil {
		t.Fatal("backend must not be called for invalid drafts")
	}
}

func TestAppointmentCreateAndCancel(t *testing.T) {
	be := &stubBackend{}
	h := NewAppointmentsHandler(be, time.Millisecond, logging.New("error"))
	srv := appointmentsTestServer(h)

	body := `{"reason":"Checkup","providerId":"d1","dateTime":"2026-09-01T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var created appointments.Appointment
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID != "created-1" {
		t.Fatalf("unexpected created appointment: %#v", created)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/appointments/created-1/cancel", strings.NewReader(`{"reason":"conflict"}`))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	update, ok := be.updates["created-1"]
	if !ok || update.Status != appointments.CancelledStatusValue || update.CancellationReason != "conflict" {
		t.Fatalf("unexpected update: %#v", update)
	}
}
