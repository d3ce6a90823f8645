package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToFlag(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{" True ", true},
		{"false", false},
		{"1", false},
		{"yes", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToFlag(tt.in), "input %q", tt.in)
	}
}

func TestToAmount(t *testing.T) {
	v, err := ToAmount("20.00")
	assert.NoError(t, err)
	assert.Equal(t, 20.0, v)

	v, err = ToAmount("0")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v)

	for _, bad := range []string{"", "abc", "-1", "NaN", "Inf", "12,5"} {
		_, err := ToAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidValue, "input %q", bad)
	}
}

func TestToCount(t *testing.T) {
	v, err := ToCount("243")
	assert.NoError(t, err)
	assert.Equal(t, 243, v)

	for _, bad := range []string{"", "ten", "-3", "2.5"} {
		_, err := ToCount(bad)
		assert.ErrorIs(t, err, ErrInvalidValue, "input %q", bad)
	}
}

func TestToTimestamp(t *testing.T) {
	want := time.Date(2021, 6, 30, 21, 0, 0, 0, time.UTC)

	tests := []string{
		"2021-06-30T21:00:00Z",
		"2021-06-30T23:00:00+02:00",
		"2021-06-30T21:00:00",
		"2021-06-30 21:00:00",
		"2021-06-30T21:00:00.000",
	}
	for _, in := range tests {
		got, err := ToTimestamp(in)
		assert.NoError(t, err, "input %q", in)
		assert.True(t, want.Equal(got), "input %q gave %v", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	for _, bad := range []string{"", "tomorrow", "2021-13-01T00:00:00", "30/06/2021"} {
		_, err := ToTimestamp(bad)
		assert.ErrorIs(t, err, ErrInvalidValue, "input %q", bad)
	}
}
