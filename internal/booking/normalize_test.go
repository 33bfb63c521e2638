package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC) }

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-05-20", "2024-05-20", true},
		{"2024/05/20", "2024-05-20", true},
		{"05/20/2024", "2024-05-20", true},
		{"20.05.2024", "2024-05-20", true},
		{"2024-05-20T19:30:00Z", "2024-05-20", true},
		{"May 20, 2024", "2024-05-20", true},
		{"  2024-05-20 ", "2024-05-20", true},
		{"2024-13-01", "", false},
		{"tomorrow", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"18:00", "18:00", true},
		{"9:30", "09:30", true},
		{"18:30:00", "18:30", true},
		{"6:30 PM", "18:30", true},
		{"6:30pm", "18:30", true},
		{"7 pm", "19:00", true},
		{"12:00 AM", "00:00", true},
		{"25:00", "", false},
		{"evening", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_LenientFallsBack(t *testing.T) {
	n := Normalizer{Now: fixedNow}

	d, err := n.Date("not a date")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-17", d)

	tm, err := n.Time("later")
	require.NoError(t, err)
	assert.Equal(t, DefaultTime, tm)

	n.DefaultTime = "19:00"
	tm, err = n.Time("")
	require.NoError(t, err)
	assert.Equal(t, "19:00", tm)
}

func TestNormalizer_StrictRejects(t *testing.T) {
	n := Normalizer{Strict: true, Now: fixedNow}

	_, err := n.Date("not a date")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "date", verr.Field)

	_, err = n.Time("later")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "time", verr.Field)

	d, err := n.Date("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d)
}
