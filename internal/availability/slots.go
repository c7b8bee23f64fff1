// Package availability turns the clinic backend's flat list of raw slot
// strings into per-day slot sets the calendar can render.
package availability

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// SlotLayout is the single documented format the backend emits for raw
// slot strings, e.g. "2025-01-15 09:30 AM". Anything else is rejected.
const SlotLayout = "2006-01-02 03:04 PM"

const (
	dateKeyLayout = "2006-01-02"
	timeKeyLayout = "15:04"
)

// AvailableDate is one calendar day that has at least one bookable slot.
// AvailableSlots holds 24-hour HH:mm keys, ascending and unique.
type AvailableDate struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
}

// ParseSlot parses a raw slot string in SlotLayout against loc.
// A nil loc falls back to the system location.
func ParseSlot(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(SlotLayout, raw, loc)
}

// GroupSlots groups raw slot strings by calendar day, de-duplicating and
// sorting the time keys within each day, and returns the days sorted
// ascending by date key. Unparseable entries are dropped with a warning;
// one bad slot never voids the rest of the batch. An input with no usable
// entries yields an empty slice, not an error.
func GroupSlots(raw []string, loc *time.Location, log *zap.Logger) []AvailableDate {
	if log == nil {
		log = zap.NewNop()
	}

	byDate := make(map[string]map[string]struct{})
	for _, s := range raw {
		t, err := ParseSlot(s, loc)
		if err != nil {
			log.Warn("dropping unparseable slot", zap.String("slot", s), zap.Error(err))
			continue
		}
		dateKey := t.Format(dateKeyLayout)
		timeKey := t.Format(timeKeyLayout)
		if byDate[dateKey] == nil {
			byDate[dateKey] = make(map[string]struct{})
		}
		byDate[dateKey][timeKey] = struct{}{}
	}

	dates := make([]AvailableDate, 0, len(byDate))
	for dateKey, times := range byDate {
		slots := make([]string, 0, len(times))
		for tk := range times {
			slots = append(slots, tk)
		}
		// Zero-padded HH:mm sorts lexicographically in chronological order.
		sort.Strings(slots)
		dates = append(dates, AvailableDate{Date: dateKey, AvailableSlots: slots})
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Date < dates[j].Date })
	return dates
}

// SlotsFor returns the slot list for dateKey, or nil when the day has none.
func SlotsFor(dates []AvailableDate, dateKey string) []string {
	for _, d := range dates {
		if d.Date == dateKey {
			return d.AvailableSlots
		}
	}
	return nil
}
