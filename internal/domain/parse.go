package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable is returned when the text contains no valid time token.
var ErrUnparsable = errors.New("unrecognized day/time")

// timeToken matches "8:30", "08.30", "23:58" anywhere in the text.
var timeToken = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)

// dayTable maps accepted weekday spellings to day numbers. Scanned in
// table order; the first entry found anywhere in the text wins, even if
// another day name occurs earlier in the text. This tie-break is part of
// the observable contract and must not be changed to text order.
var dayTable = []struct {
	spelling string
	day      int
}{
	{"δευτερα", Monday}, {"δευτέρα", Monday}, {"δευτ", Monday},
	{"τριτη", Tuesday}, {"τρίτη", Tuesday}, {"τριτ", Tuesday},
	{"τεταρτη", Wednesday}, {"τετάρτη", Wednesday}, {"τεταρ", Wednesday},
	{"πεμπτη", Thursday}, {"πέμπτη", Thursday}, {"πεμπ", Thursday},
	{"παρασκευη", Friday}, {"παρασκευή", Friday}, {"παρασκ", Friday},
	{"σαββατο", Saturday}, {"σάββατο", Saturday}, {"σαβ", Saturday},
	{"κυριακη", Sunday}, {"κυριακή", Sunday}, {"κυρ", Sunday},
}

// ParseDayTime extracts a weekly slot from free text like "Κυριακή 23:58"
// or "21:15". The day is DayUnspecified when the text names no weekday.
// The function is total: any input returns either a valid triple or
// ErrUnparsable, never a panic.
func ParseDayTime(text string) (day, hour, minute int, err error) {
	t := strings.ToLower(strings.TrimSpace(text))

	m := timeToken.FindStringSubmatch(t)
	if m == nil {
		return 0, 0, 0, ErrUnparsable
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, 0, ErrUnparsable
	}

	day = DayUnspecified
	for _, e := range dayTable {
		if strings.Contains(t, e.spelling) {
			day = e.day
			break
		}
	}
	return day, hour, minute, nil
}
