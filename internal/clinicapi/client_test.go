package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-gateway/internal/booking"
	"clinic-booking-gateway/internal/session"
)

func envelope(status int, data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status":  status,
		"message": "ok",
		"data":    data,
	}
}

func TestFetchAvailableSlots(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/appointments/available-slots", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("doctorId"))
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(envelope(200, []string{
			"2025-01-15 09:00 AM",
			"2025-01-16 02:00 PM",
		}))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := session.NewContext(context.Background(), &session.Session{Token: "tok-123"})

	slots, err := client.FetchAvailableSlots(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-15 09:00 AM", "2025-01-16 02:00 PM"}, slots)
	assert.Equal(t, "Bearer tok-123", gotAuth, "session token must be forwarded")
}

func TestFetchAvailableSlots_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope(200, []string{}))
	}))
	defer server.Close()

	slots, err := NewClient(server.URL).FetchAvailableSlots(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFetchAvailableSlots_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  404,
			"message": "An error occurred",
			"error":   "Doctor not found",
		})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchAvailableSlots(context.Background(), 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Doctor not found", apiErr.Message)
}

func TestSubmitAppointment(t *testing.T) {
	var got booking.CreateAppointmentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/appointments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(envelope(201, nil))
	}))
	defer server.Close()

	req := booking.CreateAppointmentRequest{
		PatientID:           "patient-1",
		DoctorID:            7,
		AppointmentDateTime: "2025-01-15T09:00:00",
	}
	require.NoError(t, NewClient(server.URL).SubmitAppointment(context.Background(), req))
	assert.Equal(t, req, got)
}

func TestSubmitAppointment_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 409,
			"error":  "Slot already booked",
		})
	}))
	defer server.Close()

	err := NewClient(server.URL).SubmitAppointment(context.Background(), booking.CreateAppointmentRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Slot already booked")
}

func TestListDoctors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/doctors", r.URL.Path)
		json.NewEncoder(w).Encode(envelope(200, []Doctor{
			{ID: 1, FirstName: "Grace", LastName: "Hopper", Specialty: "Cardiology"},
			{ID: 2, FirstName: "Jonas", LastName: "Salk"},
		}))
	}))
	defer server.Close()

	doctors, err := NewClient(server.URL).ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Grace", doctors[0].FirstName)
	assert.Equal(t, 2, doctors[1].ID)
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := NewClient(server.URL).FetchAvailableSlots(context.Background(), 1)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
