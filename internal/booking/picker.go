// Package booking holds the transient state of the appointment picker:
// which doctor's availability is loaded, which month is on display and
// which day/time the user has chosen.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"clinic-booking-gateway/internal/availability"
	"clinic-booking-gateway/internal/calendar"
)

// SlotSource lists the raw bookable slot strings a doctor currently offers.
type SlotSource interface {
	FetchAvailableSlots(ctx context.Context, doctorID int) ([]string, error)
}

// AppointmentBooker submits a completed booking to the clinic backend.
type AppointmentBooker interface {
	SubmitAppointment(ctx context.Context, req CreateAppointmentRequest) error
}

// CreateAppointmentRequest is the booking submission handed to the backend.
// AppointmentDateTime is a local datetime in the form YYYY-MM-DDTHH:mm:ss.
type CreateAppointmentRequest struct {
	PatientID           string `json:"patientId"`
	DoctorID            int    `json:"doctorId"`
	AppointmentDateTime string `json:"appointmentDateTime"`
}

// ValidationError reports a booking attempt with an incomplete selection.
// It is returned before any backend call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking validation: %s is required", e.Field)
}

// MonthLockedMessage is surfaced when the user tries to leave the displayed
// month. Availability is served for the current month only, so navigation
// keeps the view where it is.
const MonthLockedMessage = "Booking is open for the current month only."

// NewAppointmentRequest validates a completed selection and composes the
// backend submission. A missing piece yields a *ValidationError.
func NewAppointmentRequest(patientID string, doctorID int, dateKey, timeKey string) (CreateAppointmentRequest, error) {
	switch {
	case patientID == "":
		return CreateAppointmentRequest{}, &ValidationError{Field: "patientId"}
	case doctorID <= 0:
		return CreateAppointmentRequest{}, &ValidationError{Field: "doctorId"}
	case dateKey == "":
		return CreateAppointmentRequest{}, &ValidationError{Field: "date"}
	case timeKey == "":
		return CreateAppointmentRequest{}, &ValidationError{Field: "time"}
	}
	return CreateAppointmentRequest{
		PatientID:           patientID,
		DoctorID:            doctorID,
		AppointmentDateTime: dateKey + "T" + timeKey + ":00",
	}, nil
}

// Picker owns the booking flow state for one calendar instance. Nothing is
// cached across doctor switches; loading a different doctor discards the
// previous availability and selection.
type Picker struct {
	slots  SlotSource
	booker AppointmentBooker
	log    *zap.Logger
	loc    *time.Location
	now    func() time.Time

	mu           sync.Mutex
	doctorID     int
	fetchSeq     uint64
	available    []availability.AvailableDate
	monthAnchor  time.Time
	selectedDate string
	selectedTime string
}

// Option configures a Picker.
type Option func(*Picker)

// WithLogger sets the picker's logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Picker) {
		if log != nil {
			p.log = log
		}
	}
}

// WithLocation sets the location slot strings are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *Picker) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithClock overrides the picker's clock.
func WithClock(now func() time.Time) Option {
	return func(p *Picker) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPicker creates a picker anchored at the current month.
func NewPicker(slots SlotSource, booker AppointmentBooker, opts ...Option) *Picker {
	p := &Picker{
		slots:  slots,
		booker: booker,
		log:    zap.NewNop(),
		loc:    time.Local,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	now := p.now().In(p.loc)
	p.monthAnchor = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, p.loc)
	return p
}

// LoadAvailability fetches and applies the slot list for doctorID. Loading
// a doctor other than the current one first discards the previous state.
// A response that arrives after the picker has moved on, either to another
// doctor or to a newer fetch, is dropped instead of applied.
func (p *Picker) LoadAvailability(ctx context.Context, doctorID int) error {
	if doctorID <= 0 {
		return &ValidationError{Field: "doctorId"}
	}

	p.mu.Lock()
	if p.doctorID != doctorID {
		p.doctorID = doctorID
		p.available = nil
		p.selectedDate = ""
		p.selectedTime = ""
	}
	p.fetchSeq++
	seq := p.fetchSeq
	p.mu.Unlock()

	raw, err := p.slots.FetchAvailableSlots(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("fetch available slots for doctor %d: %w", doctorID, err)
	}
	grouped := availability.GroupSlots(raw, p.loc, p.log)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doctorID != doctorID || p.fetchSeq != seq {
		p.log.Debug("discarding stale availability response",
			zap.Int("doctorId", doctorID),
			zap.Int("currentDoctorId", p.doctorID))
		return nil
	}
	p.available = grouped
	return nil
}

// AvailableDates returns the grouped availability currently applied.
func (p *Picker) AvailableDates() []availability.AvailableDate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// DoctorID returns the doctor the picker is loaded for, 0 if none.
func (p *Picker) DoctorID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doctorID
}

// Selection returns the chosen date and time keys, empty when unset.
func (p *Picker) Selection() (dateKey, timeKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedDate, p.selectedTime
}

// Grid projects the displayed month. At most one cell is selected.
func (p *Picker) Grid() []calendar.Day {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gridLocked()
}

func (p *Picker) gridLocked() []calendar.Day {
	return calendar.MonthGrid(p.monthAnchor, p.now().In(p.loc), p.available, p.selectedDate)
}

// SelectDay sets the selection to dateKey and clears any chosen time.
// Padding cells, past days and days without slots are ignored; the method
// reports whether the selection changed.
func (p *Picker) SelectDay(dateKey string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, day := range p.gridLocked() {
		if day.DateKey != dateKey {
			continue
		}
		if !day.IsCurrentMonth || day.IsPast || !day.IsAvailable {
			return false
		}
		p.selectedDate = dateKey
		p.selectedTime = ""
		return true
	}
	return false
}

// SlotsForSelectedDay returns the time keys of the selected day, nil when
// no day is selected.
func (p *Picker) SlotsForSelectedDay() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selectedDate == "" {
		return nil
	}
	return availability.SlotsFor(p.available, p.selectedDate)
}

// SelectTime chooses one of the selected day's slots.
func (p *Picker) SelectTime(timeKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selectedDate == "" {
		return &ValidationError{Field: "date"}
	}
	for _, slot := range availability.SlotsFor(p.available, p.selectedDate) {
		if slot == timeKey {
			p.selectedTime = timeKey
			return nil
		}
	}
	return &ValidationError{Field: "time"}
}

// ConfirmBooking submits the current selection for patientID. The selection
// is cleared on success and kept intact on failure so the user can retry
// without re-selecting.
func (p *Picker) ConfirmBooking(ctx context.Context, patientID string) error {
	p.mu.Lock()
	doctorID := p.doctorID
	dateKey := p.selectedDate
	timeKey := p.selectedTime
	p.mu.Unlock()

	req, err := NewAppointmentRequest(patientID, doctorID, dateKey, timeKey)
	if err != nil {
		return err
	}

	if err := p.booker.SubmitAppointment(ctx, req); err != nil {
		return fmt.Errorf("submit appointment: %w", err)
	}

	p.mu.Lock()
	p.selectedDate = ""
	p.selectedTime = ""
	p.mu.Unlock()
	return nil
}

// NextMonth reports the navigation-locked message; the view is unchanged.
func (p *Picker) NextMonth() string {
	return MonthLockedMessage
}

// PreviousMonth reports the navigation-locked message; the view is unchanged.
func (p *Picker) PreviousMonth() string {
	return MonthLockedMessage
}
