package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-booking-gateway/internal/availability"
	"clinic-booking-gateway/internal/booking"
	"clinic-booking-gateway/internal/calendar"
	"clinic-booking-gateway/internal/clinicapi"
	"clinic-booking-gateway/internal/middleware"
	"clinic-booking-gateway/internal/utils"
)

const monthLayout = "2006-01"

// BookingHandler serves the availability calendar and the booking flow.
type BookingHandler struct {
	Clinic   *clinicapi.Client
	Log      *zap.Logger
	Location *time.Location
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(clinic *clinicapi.Client, log *zap.Logger, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{Clinic: clinic, Log: log, Location: loc}
}

// GetDoctors handles listing the doctors a patient can book with.
func (h *BookingHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.Clinic.ListDoctors(c.Request.Context())
	if err != nil {
		h.backendError(c, "Failed to fetch doctors", err)
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetAvailability handles fetching a doctor's availability grouped by day.
// A doctor with zero open slots yields an empty list, not an error.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	doctorID, ok := h.doctorIDParam(c)
	if !ok {
		return
	}

	raw, err := h.Clinic.FetchAvailableSlots(c.Request.Context(), doctorID)
	if err != nil {
		h.backendError(c, "Failed to fetch availability", err)
		return
	}

	dates := availability.GroupSlots(raw, h.Location, h.Log)
	utils.Success(c, "Availability fetched successfully", gin.H{
		"doctorId":       doctorID,
		"availableDates": dates,
	})
}

// GetCalendar handles rendering the month grid for a doctor. Only the
// current month is open for booking; asking for another month returns the
// current grid with an informational message instead of changing the view.
func (h *BookingHandler) GetCalendar(c *gin.Context) {
	doctorID, ok := h.doctorIDParam(c)
	if !ok {
		return
	}

	now := time.Now().In(h.Location)
	message := "Calendar fetched successfully"
	if m := c.Query("month"); m != "" {
		requested, err := time.ParseInLocation(monthLayout, m, h.Location)
		if err != nil {
			utils.BadRequest(c, "Invalid month, expected YYYY-MM")
			return
		}
		if requested.Year() != now.Year() || requested.Month() != now.Month() {
			message = booking.MonthLockedMessage
		}
	}

	raw, err := h.Clinic.FetchAvailableSlots(c.Request.Context(), doctorID)
	if err != nil {
		h.backendError(c, "Failed to fetch availability", err)
		return
	}

	dates := availability.GroupSlots(raw, h.Location, h.Log)
	grid := calendar.MonthGrid(now, now, dates, c.Query("selected"))
	utils.Success(c, message, gin.H{
		"doctorId": doctorID,
		"month":    now.Format(monthLayout),
		"days":     grid,
	})
}

// CreateBookingRequest represents the browser's booking confirmation payload.
// PatientID may be omitted, in which case the session user books for themselves.
type CreateBookingRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  int    `json:"doctorId" binding:"required,gt=0"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// CreateBooking handles submitting a completed day+time selection.
// An incomplete selection is rejected before any backend call is made.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID := req.PatientID
	if patientID == "" {
		if sess, ok := middleware.GetSessionFromContext(c); ok {
			patientID = sess.UserID
		}
	}

	submission, err := booking.NewAppointmentRequest(patientID, req.DoctorID, req.Date, req.Time)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Clinic.SubmitAppointment(c.Request.Context(), submission); err != nil {
		h.backendError(c, "Failed to book appointment", err)
		return
	}

	utils.Created(c, "Appointment booked successfully", submission)
}

func (h *BookingHandler) doctorIDParam(c *gin.Context) (int, bool) {
	doctorID, err := strconv.Atoi(c.Param("doctorId"))
	if err != nil || doctorID <= 0 {
		utils.BadRequest(c, "Invalid doctor ID")
		return 0, false
	}
	return doctorID, true
}

// backendError maps a clinic API failure onto this surface: the backend's
// own status and message when it sent one, 502 for transport failures.
func (h *BookingHandler) backendError(c *gin.Context, message string, err error) {
	var apiErr *clinicapi.APIError
	if errors.As(err, &apiErr) {
		h.Log.Warn(message, zap.Error(err))
		status := apiErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		detail := apiErr.Message
		if detail == "" {
			detail = message
		}
		utils.Error(c, status, detail)
		return
	}
	h.Log.Error(message, zap.Error(err))
	utils.BadGateway(c, message+": upstream request failed")
}
