package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWindows struct {
	counts map[string]int64
	err    error
}

func (m *memoryWindows) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if m.err != nil {
		return false, 0, m.err
	}
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[scope]++
	return m.counts[scope] <= limit, m.counts[scope], nil
}

func loginRequest(ip, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = ip + ":5555"
	return req
}

func TestThrottleByEmail(t *testing.T) {
	store := &memoryWindows{}
	policy := ThrottlePolicy{Name: "login", Window: time.Minute, IPLimit: 100, EmailLimit: 2}
	var bodies []string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		w.WriteHeader(http.StatusOK)
	})
	h := Throttle(policy, store, nil)(next)

	codes := make([]int, 0, 3)
	for _, email := range []string{"a@x.io", " A@X.io ", "a@x.io"} {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, loginRequest("10.0.0.1", `{"email":"`+email+`"}`))
		codes = append(codes, resp.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "a@x.io")

	// a different address is counted separately
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, loginRequest("10.0.0.1", `{"email":"b@x.io"}`))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestThrottleByIP(t *testing.T) {
	store := &memoryWindows{}
	h := Throttle(ThrottlePolicy{Name: "register", Window: time.Minute, IPLimit: 1}, store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) }),
	)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, loginRequest("10.0.0.2", `{}`))
	second := httptest.NewRecorder()
	req := loginRequest("10.0.0.9", `{}`)
	req.Header.Set("X-Forwarded-For", "10.0.0.2, 172.16.0.1")
	h.ServeHTTP(second, req)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestThrottleDisabledAndFailing(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	resp := httptest.NewRecorder()
	Throttle(ThrottlePolicy{}, &memoryWindows{err: errors.New("unused")}, nil)(ok).ServeHTTP(resp, loginRequest("10.0.0.3", `{}`))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	failing := &memoryWindows{err: errors.New("redis down")}
	Throttle(ThrottlePolicy{Window: time.Minute, IPLimit: 5}, failing, nil)(ok).ServeHTTP(resp, loginRequest("10.0.0.3", `{}`))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestUserRateLimitSkipsReads(t *testing.T) {
	store := &memoryWindows{}
	h := UserRateLimit("writes", 1, time.Minute, store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)
	p := Principal{UserID: uuid.New(), OrganizationID: uuid.New()}

	var codes []int
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodGet, http.MethodPatch} {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, withPrincipal(httptest.NewRequest(method, "/api/v1/contacts", nil), p))
		codes = append(codes, resp.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
