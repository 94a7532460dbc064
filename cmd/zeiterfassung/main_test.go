package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, 3, 12, 8, 30, 0, 0, time.Local)

	for _, in := range []string{"2025-03-12 08:30", "2025-03-12T08:30", "12.03.2025 08:30"} {
		got, err := parseDateTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := parseDateTime("12/03/2025")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, in := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(in)
		assert.Error(t, err, in)
	}
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{
		"name=Muster GmbH",
		"payment_terms=30",
		"is_active=false",
		"notes=",
		"tags=[1,2]",
	})
	require.NoError(t, err)

	assert.Equal(t, "Muster GmbH", fields["name"])
	assert.Equal(t, float64(30), fields["payment_terms"])
	assert.Equal(t, false, fields["is_active"])
	assert.Equal(t, "", fields["notes"])
	assert.Equal(t, "[1,2]", fields["tags"])
}

func TestParseFieldsErrors(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
	}{
		{"empty", nil},
		{"missing separator", []string{"name"}},
		{"empty key", []string{"=value"}},
		{"id", []string{"id=5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFields(tt.pairs)
			assert.Error(t, err)
		})
	}
}
