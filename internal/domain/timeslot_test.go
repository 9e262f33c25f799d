package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int // minutes since midnight
		wantErr  bool
	}{
		{name: "wire format with seconds", input: "08:30:00", expected: 510},
		{name: "short form", input: "08:30", expected: 510},
		{name: "midnight", input: "00:00", expected: 0},
		{name: "end of day", input: "24:00", expected: 1440},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "past end of day", input: "24:30", wantErr: true},
		{name: "minute out of range", input: "10:75", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Minutes())
		})
	}
}

func TestTimeOfDayWireFormat(t *testing.T) {
	parsed, err := ParseTimeOfDay("14:30")
	require.NoError(t, err)
	assert.Equal(t, "14:30:00", parsed.String())
	assert.Equal(t, "14:30", parsed.Short())

	raw, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, `"14:30:00"`, string(raw))

	var back TimeOfDay
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, parsed, back)
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: MustTimeOfDay("10:00"), End: MustTimeOfDay("11:00")}

	tests := []struct {
		name     string
		other    Interval
		overlaps bool
	}{
		{
			name:     "touching at end does not overlap",
			other:    Interval{Start: MustTimeOfDay("11:00"), End: MustTimeOfDay("11:30")},
			overlaps: false,
		},
		{
			name:     "touching at start does not overlap",
			other:    Interval{Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("10:00")},
			overlaps: false,
		},
		{
			name:     "half hour inside overlaps",
			other:    Interval{Start: MustTimeOfDay("10:30"), End: MustTimeOfDay("11:00")},
			overlaps: true,
		},
		{
			name:     "straddling the start overlaps",
			other:    Interval{Start: MustTimeOfDay("09:30"), End: MustTimeOfDay("10:30")},
			overlaps: true,
		},
		{
			name:     "fully containing overlaps",
			other:    Interval{Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("12:00")},
			overlaps: true,
		},
		{
			name:     "disjoint before",
			other:    Interval{Start: MustTimeOfDay("08:00"), End: MustTimeOfDay("09:00")},
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, base.Overlaps(tt.other))
			// Overlap is symmetric
			assert.Equal(t, tt.overlaps, tt.other.Overlaps(base))
		})
	}
}

func TestIntervalSlotSpan(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{name: "half hour is one slot", start: "10:00", end: "10:30", expected: 1},
		{name: "one hour is two slots", start: "10:00", end: "11:00", expected: 2},
		{name: "two hours is four slots", start: "10:00", end: "12:00", expected: 4},
		{name: "sub-slot rounds up to one", start: "10:00", end: "10:15", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := Interval{Start: MustTimeOfDay(tt.start), End: MustTimeOfDay(tt.end)}
			assert.Equal(t, tt.expected, i.SlotSpan())
		})
	}
}

func TestWorkingHoursValidate(t *testing.T) {
	assert.NoError(t, DefaultWorkingHours().Validate())

	backwards := WorkingHours{Start: MustTimeOfDay("22:00"), End: MustTimeOfDay("08:00")}
	assert.Error(t, backwards.Validate())

	degenerate := WorkingHours{Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("09:00")}
	assert.Error(t, degenerate.Validate())
}

func TestWorkingHoursContains(t *testing.T) {
	hours := DefaultWorkingHours() // 08:00-22:00

	inside := Interval{Start: MustTimeOfDay("08:00"), End: MustTimeOfDay("09:00")}
	assert.True(t, hours.Contains(inside))

	atClose := Interval{Start: MustTimeOfDay("21:00"), End: MustTimeOfDay("22:00")}
	assert.True(t, hours.Contains(atClose))

	early := Interval{Start: MustTimeOfDay("07:30"), End: MustTimeOfDay("08:00")}
	assert.False(t, hours.Contains(early))

	late := Interval{Start: MustTimeOfDay("21:30"), End: MustTimeOfDay("22:30")}
	assert.False(t, hours.Contains(late))
}
