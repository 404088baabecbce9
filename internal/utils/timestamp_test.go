package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

	cases := map[string]string{
		"rfc3339 utc":    "2024-05-17T09:30:00Z",
		"rfc3339 offset": "2024-05-17T11:30:00+02:00",
		"naive seconds":  "2024-05-17T09:30:00",
		"naive minutes":  "2024-05-17T09:30",
		"space":          "2024-05-17 09:30:00",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTimestamp(raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	day, err := ParseTimestamp("2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseTimestamp("next tuesday")
	assert.Error(t, err)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 17, 11, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2024-05-17T09:30:00Z", FormatTimestamp(ts))

	assert.Nil(t, FormatOptionalTimestamp(nil))
	formatted := FormatOptionalTimestamp(&ts)
	require.NotNil(t, formatted)
	assert.Equal(t, "2024-05-17T09:30:00Z", *formatted)
}
