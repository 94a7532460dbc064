package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2019, "2019-04-21"},
		{2020, "2020-04-12"},
		{2021, "2021-04-04"},
		{2022, "2022-04-17"},
		{2023, "2023-04-09"},
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2027, "2027-03-28"},
		{2038, "2038-04-25"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Easter(tt.year)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("Easter(%d) = %s, want %s", tt.year, got.Format("2006-01-02"), tt.want)
			}
			if got.Weekday() != time.Sunday {
				t.Errorf("Easter(%d) is a %s, want Sunday", tt.year, got.Weekday())
			}
		})
	}
}

func TestBadenWuerttemberg2025(t *testing.T) {
	holidays := BadenWuerttemberg(2025)

	want := map[string]string{
		"2025-01-01": "Neujahr",
		"2025-01-06": "Heilige Drei Könige",
		"2025-04-18": "Karfreitag",
		"2025-04-21": "Ostermontag",
		"2025-05-01": "Tag der Arbeit",
		"2025-05-29": "Christi Himmelfahrt",
		"2025-06-09": "Pfingstmontag",
		"2025-06-19": "Fronleichnam",
		"2025-10-03": "Tag der Deutschen Einheit",
		"2025-11-01": "Allerheiligen",
		"2025-12-25": "1. Weihnachtstag",
		"2025-12-26": "2. Weihnachtstag",
	}

	assert.Equal(t, want, holidays)
}

func TestBadenWuerttembergEntryCount(t *testing.T) {
	// 7 fixed dates + 5 Easter-relative dates. Ascension falls on May 1 when
	// Easter is March 23, which merges two entries.
	for year := 1900; year <= 2200; year++ {
		holidays := BadenWuerttemberg(year)
		want := 12
		if e := Easter(year); e.Month() == time.March && e.Day() == 23 {
			want = 11
		}
		if len(holidays) != want {
			t.Fatalf("BadenWuerttemberg(%d) has %d entries, want %d", year, len(holidays), want)
		}
		for date := range holidays {
			if date[:4] != time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006") {
				t.Fatalf("BadenWuerttemberg(%d) contains foreign date %s", year, date)
			}
		}
	}
}

func TestBadenWuerttembergAscensionOnLaborDay(t *testing.T) {
	holidays := BadenWuerttemberg(2008)
	assert.Len(t, holidays, 11)
	assert.Equal(t, "Christi Himmelfahrt", holidays["2008-05-01"])
}

func TestGaussCalendar_Idempotent(t *testing.T) {
	gc := NewGaussCalendar()

	first := gc.Holidays(2024)
	second := gc.Holidays(2024)
	assert.Equal(t, first, second)

	// Returned maps are copies; mutating one must not leak into the cache
	first["2024-02-14"] = "Valentinstag"
	third := gc.Holidays(2024)
	assert.NotContains(t, third, "2024-02-14")
	assert.Equal(t, BadenWuerttemberg(2024), third)
}

func TestGaussCalendar_HolidayNameUsesDateYear(t *testing.T) {
	gc := NewGaussCalendar()

	// Warm the cache with 2024 first
	_ = gc.Holidays(2024)

	name, ok := gc.HolidayName(time.Date(2025, time.April, 18, 0, 0, 0, 0, time.Local))
	require.True(t, ok)
	assert.Equal(t, "Karfreitag", name)

	// 2024-04-18 is not a holiday even though 2025-04-18 is
	_, ok = gc.HolidayName(time.Date(2024, time.April, 18, 0, 0, 0, 0, time.Local))
	assert.False(t, ok)

	name, ok = gc.HolidayName(time.Date(2024, time.March, 29, 23, 30, 0, 0, time.Local))
	require.True(t, ok)
	assert.Equal(t, "Karfreitag", name)
}

func TestStateCalendar(t *testing.T) {
	sc, err := NewStateCalendar("nw")
	require.NoError(t, err)
	assert.Equal(t, "NW", sc.State())

	holidays := sc.Holidays(2025)
	assert.Contains(t, holidays, "2025-11-01")
	assert.Contains(t, holidays, "2025-06-19")
	assert.Contains(t, holidays, "2025-12-25")

	nat, err := NewStateCalendar("DE")
	require.NoError(t, err)
	_, ok := nat.HolidayName(time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok, "Epiphany is not a nationwide holiday")

	_, err = NewStateCalendar("XX")
	assert.Error(t, err)
}

func TestStateCalendarAgreesWithGaussForBW(t *testing.T) {
	sc, err := NewStateCalendar("BW")
	require.NoError(t, err)

	for year := 2020; year <= 2030; year++ {
		gauss := BadenWuerttemberg(year)
		state := sc.Holidays(year)
		for date := range gauss {
			assert.Contains(t, state, date, "year %d", year)
		}
	}
}

func TestFileAndCompositeCalendar(t *testing.T) {
	logger := zap.NewNop()
	path := filepath.Join(t.TempDir(), "extra.txt")
	content := "# company days off\n" +
		"2025-12-24 Heiligabend\n" +
		"2025-12-31 Silvester\n" +
		"2025-12-25 Betriebsferien\n" +
		"not-a-date Broken\n" +
		"2026-01-02 Brückentag\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	extra := NewFileCalendar(path, logger)
	composite := NewCompositeCalendar(NewGaussCalendar(), extra, logger)
	require.NoError(t, composite.LoadExtra())

	holidays := composite.Holidays(2025)
	assert.Len(t, holidays, 14)
	assert.Equal(t, "Heiligabend", holidays["2025-12-24"])
	assert.Equal(t, "1. Weihnachtstag", holidays["2025-12-25"])

	name, ok := composite.HolidayName(time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Brückentag", name)

	name, ok = composite.HolidayName(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "1. Weihnachtstag", name)
}

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	cal, err := New("", "", logger)
	require.NoError(t, err)
	assert.IsType(t, &GaussCalendar{}, cal)

	cal, err = New("nw", "", logger)
	require.NoError(t, err)
	assert.IsType(t, &StateCalendar{}, cal)

	_, err = New("BW", filepath.Join(t.TempDir(), "missing.txt"), logger)
	assert.Error(t, err)

	_, err = New("ZZ", "", logger)
	assert.Error(t, err)

	assert.True(t, IsSupportedState("he"))
	assert.False(t, IsSupportedState("ZZ"))
	assert.Contains(t, SupportedStates(), "BW")
	assert.Contains(t, SupportedStates(), "DE")
}
