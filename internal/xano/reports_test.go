package xano

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weekReportJSON = `{
  "week_start": "2025-01-06",
  "week_end": "2025-01-12",
  "days": [
    {"date": "2025-01-06", "weekday": "Monday", "worked_hours": 8.5, "should_hours": 8, "difference": 0.5,
     "entries": [{"id": 1, "start": 1736150400000, "end": 1736181000000, "is_break": false, "comment": null, "duration_hours": 8.5}]},
    {"date": "2025-01-07", "weekday": "Tuesday", "worked_hours": "6", "should_hours": 8, "difference": 99},
    {"date": "kaputt", "weekday": "Wednesday", "worked_hours": 1, "should_hours": 1},
    {"date": "2025-01-11", "weekday": "Saturday", "worked_hours": null, "should_hours": 0}
  ],
  "summary": {"total_worked": 14.5, "total_should": 16, "difference": -1.5}
}`

func TestWeekReport(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api:p3vCYW4E/week", r.URL.Path)
		assert.Equal(t, "2025-01-08", r.URL.Query().Get("date"))
		_, _ = io.WriteString(w, weekReportJSON)
	}), "tok")

	rep, err := c.WeekReport(context.Background(), time.Date(2025, time.January, 8, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, "2025-01-06", rep.WeekStart.Format("2006-01-02"))
	assert.Equal(t, "2025-01-12", rep.WeekEnd.Format("2006-01-02"))
	require.Len(t, rep.Days, 3, "invalid dates are skipped")

	assert.Equal(t, 8.5, rep.Days[0].WorkedHours)
	require.Len(t, rep.Days[0].Entries, 1)
	assert.Equal(t, "", rep.Days[0].Entries[0].Comment)

	// Difference is recomputed from worked and should
	assert.Equal(t, 6.0, rep.Days[1].WorkedHours)
	assert.Equal(t, -2.0, rep.Days[1].Difference)
	assert.NotNil(t, rep.Days[1].Entries)

	assert.Equal(t, 0.0, rep.Days[2].WorkedHours)
	assert.True(t, rep.Days[2].IsWeekend())

	assert.Equal(t, 14.5, rep.Summary.TotalWorked)
	assert.Equal(t, 16.0, rep.Summary.TotalShould)
	assert.Equal(t, -1.5, rep.Summary.Difference)
}

func TestMonthReport_LegacySummary(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantWorked float64
		wantShould float64
	}{
		{
			name:       "current shape",
			body:       `{"year":2025,"month":1,"month_name":"Januar","days":[],"summary":{"total_worked":150,"total_should":160,"difference":-10}}`,
			wantWorked: 150,
			wantShould: 160,
		},
		{
			name:       "legacy top level",
			body:       `{"year":2025,"month":1,"days":[],"total_hours":"120.5","expected_hours":168,"overtime_delta":-47.5}`,
			wantWorked: 120.5,
			wantShould: 168,
		},
		{
			name:       "legacy inside summary",
			body:       `{"year":2025,"month":1,"days":[],"summary":{"total_hours":10,"expected_hours":8}}`,
			wantWorked: 10,
			wantShould: 8,
		},
		{
			name:       "partial summary",
			body:       `{"days":[],"summary":{"total_worked":12}}`,
			wantWorked: 12,
			wantShould: 0,
		},
		{
			name: "nothing",
			body: `{}`,
		},
		{
			name: "no summary sums days",
			body: `{"year":2025,"month":1,"days":[
				{"date":"2025-01-02","weekday":"Thursday","worked_hours":8,"should_hours":8},
				{"date":"2025-01-03","weekday":"Friday","worked_hours":"7.1","should_hours":8},
				{"date":"2025-01-04","weekday":"Saturday","worked_hours":0.2,"should_hours":0}]}`,
			wantWorked: 15.3,
			wantShould: 16,
		},
		{
			name: "missing field falls back to days",
			body: `{"days":[
				{"date":"2025-01-02","weekday":"Thursday","worked_hours":8,"should_hours":8}],
				"summary":{"total_worked":7.5}}`,
			wantWorked: 7.5,
			wantShould: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api:p3vCYW4E/month", r.URL.Path)
				assert.Equal(t, "2025", r.URL.Query().Get("year"))
				assert.Equal(t, "1", r.URL.Query().Get("month"))
				_, _ = io.WriteString(w, tt.body)
			}), "tok")

			rep, err := c.MonthReport(context.Background(), 2025, time.January)
			require.NoError(t, err)
			assert.Equal(t, 2025, rep.Year)
			assert.Equal(t, time.January, rep.Month)
			assert.NotEmpty(t, rep.MonthName)
			assert.Equal(t, tt.wantWorked, rep.Summary.TotalWorked)
			assert.Equal(t, tt.wantShould, rep.Summary.TotalShould)
			assert.InDelta(t, tt.wantWorked-tt.wantShould, rep.Summary.Difference, 1e-9)
		})
	}
}
