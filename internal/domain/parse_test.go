package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayTime(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		day    int
		hour   int
		minute int
		ok     bool
	}{
		{"day and time", "Κυριακή 23:58", Sunday, 23, 58, true},
		{"time only", "21:15", DayUnspecified, 21, 15, true},
		{"single digit hour", "Τετάρτη 8:00", Wednesday, 8, 0, true},
		{"dot separator", "Δευτέρα 08.30", Monday, 8, 30, true},
		{"abbreviation", "σαβ 12:00", Saturday, 12, 0, true},
		{"unaccented upper", "ΠΑΡΑΣΚΕΥΗ 17:45", Friday, 17, 45, true},
		{"surrounding text", "/set θέλω κάθε πέμπτη 19:05 παρακαλώ", Thursday, 19, 5, true},
		{"no time token", "not a schedule", 0, 0, 0, false},
		{"hour out of range", "25:00", 0, 0, 0, false},
		{"minute out of range", "10:73", 0, 0, 0, false},
		{"empty", "", 0, 0, 0, false},
		{"bare number", "815", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, hour, minute, err := ParseDayTime(tt.text)
			if !tt.ok {
				require.ErrorIs(t, err, ErrUnparsable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.day, day)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

// Two day names in one message: the fixed table order decides, not the
// position in the text.
func TestParseDayTime_TableOrderWins(t *testing.T) {
	day, _, _, err := ParseDayTime("τρίτη ή δευτέρα 10:00")
	require.NoError(t, err)
	assert.Equal(t, Monday, day)
}

func TestValidSchedule(t *testing.T) {
	assert.True(t, ValidSchedule(Monday, 0, 0))
	assert.True(t, ValidSchedule(Sunday, 23, 59))
	assert.False(t, ValidSchedule(-1, 10, 0))
	assert.False(t, ValidSchedule(7, 10, 0))
	assert.False(t, ValidSchedule(Monday, 24, 0))
	assert.False(t, ValidSchedule(Monday, 10, 60))
}

func TestScheduleRecordString(t *testing.T) {
	r := ScheduleRecord{Day: Sunday, Hour: 23, Minute: 58}
	assert.Equal(t, "Κυριακή 23:58", r.String())
}
