package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"punchdesk/config"
	"punchdesk/internal/model"
	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&config.UpstreamConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
		ProfileTimeout: 200 * time.Millisecond,
	}, zap.NewNop(), metrics.New(nil))
}

func authed() context.Context {
	return WithToken(context.Background(), "tok")
}

func TestClient_ForwardsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/user/all", r.URL.Path)
		_, _ = w.Write([]byte(`[{"uid":"a","firstName":"Ann","role":"ADMIN"},{"uid":"b","role":"owner"}]`))
	})

	users, err := c.GetAllUsers(authed())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
	assert.Equal(t, model.RoleEmployee, users[1].Role, "未知角色按 employee 处理")
}

func TestClient_MissingTokenNeverCalls(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.GetAllUsers(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	assert.False(t, called)
}

func TestClient_NotFoundIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("date"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No report for this date"}`))
	})

	rep, err := c.GetDailyReport(authed(), "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, rep.Data)
	assert.Equal(t, "2024-01-01", rep.Date)

	sum, err := c.GetDailySummary(authed(), "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, sum)
}

func TestClient_ServiceErrorMessageVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Already punched in"}`))
	})

	_, err := c.PunchIn(authed())
	se, ok := apperrors.AsService(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "Already punched in", se.Message)
}

func TestClient_TruncatedBodyIsServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		// 声明 100 字节只写出一部分即断开
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n[{\"uid\"")
		_ = buf.Flush()
		_ = conn.Close()
	})

	_, err := c.GetAllUsers(authed())
	se, ok := apperrors.AsService(err)
	require.True(t, ok, "实际: %v", err)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.NotErrorIs(t, err, apperrors.ErrTimeout)
}

func TestClient_ServiceErrorFallbacks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/user/grant-admin" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("upstream exploded"))
			return
		}
		w.WriteHeader(http.StatusConflict)
	})

	_, err := c.GrantAdmin(authed(), "u1")
	se, ok := apperrors.AsService(err)
	require.True(t, ok)
	assert.Equal(t, "upstream exploded", se.Message)

	_, err = c.RevokeAdmin(authed(), "u1")
	se, ok = apperrors.AsService(err)
	require.True(t, ok)
	assert.Equal(t, "撤销管理员失败 (409)", se.Message)
}

func TestClient_UnauthorizedClass(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/user/details" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetUserDetails(authed())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = c.GetHistory(authed(), "", "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestClient_ForbiddenOnAdminIsServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Superadmin only"}`))
	})

	_, err := c.GrantAdmin(authed(), "u1")
	assert.False(t, errors.Is(err, apperrors.ErrUnauthenticated))
	se, ok := apperrors.AsService(err)
	require.True(t, ok)
	assert.Equal(t, "Superadmin only", se.Message)
}

func TestClient_ProfileTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := c.GetPunchStatus(authed())
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
}

func TestClient_UpdatePunchSendsISO(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admin/punches/p%201", r.URL.EscapedPath())
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, map[string]string{"punchIn": "2024-01-01T01:00:00.000Z"}, body)
		_, _ = w.Write([]byte(`{"id":"p 1","punchIn":"2024-01-01T01:00:00.000Z","punchOut":null,"adminEdited":true,"metrics":{"regularHours":8}}`))
	})

	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("PHT", 8*3600))
	res, err := c.UpdatePunch(authed(), "p 1", model.PunchUpdate{PunchIn: &in})
	require.NoError(t, err)
	assert.True(t, res.AdminEdited)
	assert.Nil(t, res.PunchOut)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, 8.0, res.Metrics.RegularHours)
}

func TestClient_WeeklyReportDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-01-07", r.URL.Query().Get("endDate"))
		_, _ = w.Write([]byte(`{"startDate":"2024-01-01","endDate":"2024-01-07","count":1,"data":[
			{"uid":"a","totals":{"regularHours":16,"lateMinutes":3},"employee":{"firstName":"Ann"},
			 "days":[{"uid":"a","workDate":"2024-01-02","regularHours":8,"punches":[{"attendanceId":"x","punchIn":"2024-01-02T01:00:00Z","punchOut":null}]}]}
		]}`))
	})

	rep, err := c.GetWeeklyReport(authed(), "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, rep.Data, 1)
	e := rep.Data[0]
	assert.Equal(t, 16.0, e.Totals.RegularHours)
	assert.Equal(t, 3, e.Totals.LateMinutes)
	require.Len(t, e.Days, 1)
	assert.Equal(t, "2024-01-02", e.Days[0].WorkDate)
	assert.Equal(t, 8.0, e.Days[0].RegularHours)
	assert.Nil(t, e.Days[0].Punches[0].PunchOut)
}
