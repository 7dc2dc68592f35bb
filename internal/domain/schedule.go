// Package domain holds the schedule model and the free-text day/time
// parser. It has no dependencies on storage or transport.
package domain

import "fmt"

// Days of the week, Monday first. The zero value is Monday on purpose:
// a recipient activated without an explicit schedule gets Monday 08:00.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DayUnspecified marks a parsed schedule that named no weekday.
// Callers substitute the recipient's stored day, or Monday.
const DayUnspecified = -1

// Defaults for a freshly activated recipient.
const (
	DefaultDay    = Monday
	DefaultHour   = 8
	DefaultMinute = 0
)

// DayNames are the display names in schedule order (Monday=0).
var DayNames = [7]string{
	"Δευτέρα", "Τρίτη", "Τετάρτη", "Πέμπτη", "Παρασκευή", "Σάββατο", "Κυριακή",
}

// ScheduleRecord is one recipient's weekly delivery slot.
type ScheduleRecord struct {
	ChatID  int64
	Enabled bool
	Day     int // 0=Monday .. 6=Sunday
	Hour    int // 0..23
	Minute  int // 0..59
}

// ValidSchedule reports whether the triple is a well-formed weekly slot.
func ValidSchedule(day, hour, minute int) bool {
	return day >= Monday && day <= Sunday &&
		hour >= 0 && hour <= 23 &&
		minute >= 0 && minute <= 59
}

// String formats the record as "Δευτέρα 08:00" for user-facing replies.
func (r ScheduleRecord) String() string {
	return fmt.Sprintf("%s %02d:%02d", DayNames[r.Day], r.Hour, r.Minute)
}
