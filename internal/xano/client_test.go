package xano

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	data    *SessionData
	cleared bool
}

func (m *memoryStore) Load() (*SessionData, error) { return m.data, nil }
func (m *memoryStore) Save(d *SessionData) error   { m.data = d; return nil }
func (m *memoryStore) Clear() error                { m.data = nil; m.cleared = true; return nil }

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	session := NewSession(&memoryStore{}, logger)
	if token != "" {
		require.NoError(t, session.Set(token, nil))
	}
	return NewClient(Options{
		BaseURL:      srv.URL,
		Groups:       DefaultGroups(),
		Retries:      3,
		RetryBackoff: time.Millisecond,
	}, session, logger)
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`7.5`, 7.5},
		{`"7.5"`, 7.5},
		{`null`, 0},
		{`"abc"`, 0},
		{`true`, 0},
		{`""`, 0},
		{`-2`, -2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tt.input), &n); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Float64() != tt.want {
				t.Errorf("Number(%s) = %v, want %v", tt.input, n.Float64(), tt.want)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.UnixMilli(1736755200000)

	tests := []string{`1736755200000`, `"1736755200000"`, `"2025-01-13T08:00:00Z"`}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(input), &ts))
			assert.True(t, ts.Equal(want), "got %s", ts.Time)
		})
	}

	var empty Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
}

func TestDoRequest_AuthHeaderAndGroups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api:eltyNUzq/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"id":7,"email":"a@b.de","name":"Anna","role":"office","is_active":true}`)
	})

	c := newTestClient(t, mux, "secret")
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, RoleOffice, user.Role)
	assert.True(t, user.Role.CanApprove())
	assert.Equal(t, user, c.Session().User())
}

func TestDoRequest_NotAuthenticated(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}), "")

	_, err := c.OvertimeBalance(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestDoRequest_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"backend message", http.StatusBadRequest, `{"message":"Ungültige Zeitangabe"}`, "Ungültige Zeitangabe"},
		{"no message", http.StatusForbidden, `{}`, "HTTP 403: Forbidden"},
		{"not json", http.StatusConflict, `oops`, "HTTP 409: Conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}), "tok")

			err := c.DeleteTimeEntry(context.Background(), 3)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestDoRequest_RetriesGetOnServerError(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"current_balance":"12.5","max_allowed_overtime":40}`)
	}), "tok")

	account, err := c.OvertimeBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.5, account.CurrentBalance.Float64())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoRequest_NoRetryOnClientErrorOrPost(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}), "tok")

	_, err := c.WorkingTime(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = c.StartTimer(context.Background(), StartTimerRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoginAndLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api:eltyNUzq/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.de", req.Email)
		_, _ = io.WriteString(w, `{"authToken":"fresh","user":{"id":1,"email":"a@b.de","role":"user"}}`)
	})

	store := &memoryStore{}
	logger := zap.NewNop()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := NewClient(Options{BaseURL: srv.URL}, NewSession(store, logger), logger)

	resp, err := c.Login(context.Background(), LoginRequest{Email: "a@b.de", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", resp.AuthToken)
	assert.True(t, c.Session().Authenticated())
	require.NotNil(t, store.data)
	assert.Equal(t, "fresh", store.data.Token)

	restored := NewSession(store, logger)
	require.NoError(t, restored.Restore())
	assert.True(t, restored.Authenticated())
	assert.Equal(t, int64(1), restored.User().ID)

	require.NoError(t, c.Logout())
	assert.False(t, c.Session().Authenticated())
	assert.True(t, store.cleared)
}

func TestCurrentTimer(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantNil bool
	}{
		{"running", http.StatusOK, `{"id":4,"started_at":"1736755200000","is_break":false}`, false},
		{"no content", http.StatusNoContent, ``, true},
		{"not found", http.StatusNotFound, `{"message":"no timer"}`, true},
		{"null", http.StatusOK, `null`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api:uMXZ3Fde/current", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}), "tok")

			timer, err := c.CurrentTimer(context.Background())
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, timer)
				return
			}
			require.NotNil(t, timer)
			assert.Equal(t, int64(1736755200000), timer.StartedAt.UnixMilli())
		})
	}
}

func TestStopTimer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api:uMXZ3Fde/stop", r.URL.Path)
		_, _ = io.WriteString(w, `{"time_entry":{"id":11,"start":1736755200000,"end":1736758800000,"is_break":false}}`)
	}), "tok")

	entry, err := c.StopTimer(context.Background(), &StopTimerRequest{Comment: "Review"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), entry.ID)
	assert.Equal(t, time.Hour, entry.Duration())
}

func TestCreateTimeEntry(t *testing.T) {
	start := time.Date(2025, time.January, 13, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api:time_entries/create", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(start.UnixMilli()), body["start"])
		assert.Equal(t, float64(end.UnixMilli()), body["end"])
		_, _ = io.WriteString(w, `{"id":5,"start":1736755200000,"end":1736760600000}`)
	}), "tok")

	entry, err := c.CreateTimeEntry(context.Background(), TimeEntryCreate{Start: start, End: end})
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.ID)

	_, err = c.CreateTimeEntry(context.Background(), TimeEntryCreate{Start: end, End: start})
	assert.Error(t, err)
}

func TestListTimeEntriesQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api:time_entries/list", r.URL.Path)
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2025-01-31", r.URL.Query().Get("end_date"))
		_, _ = io.WriteString(w, `{"items":[{"id":1},{"id":2}],"itemsReceived":2,"curPage":1,"nextPage":2,"prevPage":null,"offset":0,"perPage":2}`)
	}), "tok")

	page, err := c.ListTimeEntries(context.Background(), TimeEntryQuery{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNext())
}

func TestAbsences(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api:Y4Tu20lh/absences/9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"status": "approved"}, body)
		_, _ = io.WriteString(w, `{"id":9,"status":"approved","type":"vacation"}`)
	})
	mux.HandleFunc("/api:Y4Tu20lh/delet_absences/9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, mux, "tok")
	absence, err := c.SetAbsenceStatus(context.Background(), 9, AbsenceApproved)
	require.NoError(t, err)
	assert.Equal(t, AbsenceApproved, absence.Status)

	require.NoError(t, c.DeleteAbsence(context.Background(), 9))

	_, err = c.CreateAbsence(context.Background(), AbsenceCreate{StartDate: "2025-08-10", EndDate: "2025-08-01", Type: AbsenceVacation})
	assert.Error(t, err)
	_, err = c.CreateAbsence(context.Background(), AbsenceCreate{StartDate: "2025-08-01", EndDate: "2025-08-10", Type: "holiday"})
	assert.Error(t, err)
}

func TestUpdateUserSendsID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/patch_user", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(42), body["id"])
		assert.Equal(t, "admin", body["role"])
		assert.NotContains(t, body, "is_active")
		_, _ = io.WriteString(w, `{"id":42,"role":"admin","is_active":true}`)
	}), "tok")

	role := RoleAdmin
	user, err := c.UpdateUser(context.Background(), 42, UserUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestCRMUpdateAndDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api:2dZRWuiU/update_organization", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["id"])
		assert.Equal(t, "Muster GmbH", body["name"])
		_, _ = io.WriteString(w, `{"id":3,"name":"Muster GmbH","credit_limit":"5000"}`)
	})
	mux.HandleFunc("/api:2dZRWuiU/delete_address", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(8), body["id"])
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	mux.HandleFunc("/api:2dZRWuiU/list_addresses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "person", r.URL.Query().Get("addressable_type"))
		_, _ = io.WriteString(w, `[{"id":1,"addressable_type":"person","addressable_id":5},{"id":2,"addressable_type":"person","addressable_id":6}]`)
	})

	c := newTestClient(t, mux, "tok")
	org, err := c.UpdateOrganization(context.Background(), 3, map[string]interface{}{"name": "Muster GmbH"})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, org.CreditLimit.Float64())

	require.NoError(t, c.DeleteAddress(context.Background(), 8))

	list, err := c.ListAddresses(context.Background(), AddressQuery{AddressableType: AddressablePerson, AddressableID: 6})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)

	_, err = c.CreateAddress(context.Background(), Address{AddressableType: "company", AddressableID: 1})
	assert.Error(t, err)
}
