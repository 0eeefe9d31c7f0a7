package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip replays the cookies set on rec into a new request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_LoginLogout(t *testing.T) {
	m := NewManager("test-secret", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := m.UserID(req)
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, req, 42))

	next := roundTrip(rec)
	id, ok := m.UserID(next)
	require.True(t, ok)
	assert.EqualValues(t, 42, id)

	rec = httptest.NewRecorder()
	require.NoError(t, m.Logout(rec, next))
	_, ok = m.UserID(roundTrip(rec))
	assert.False(t, ok)
}

func TestManager_Flashes(t *testing.T) {
	m := NewManager("test-secret", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(rec, req, "danger", "Access unauthorized."))

	next := roundTrip(rec)
	rec = httptest.NewRecorder()
	flashes := m.Flashes(rec, next)
	assert.Equal(t, []Flash{{Category: "danger", Text: "Access unauthorized."}}, flashes)

	assert.Empty(t, m.Flashes(httptest.NewRecorder(), roundTrip(rec)))
}

func TestManager_TamperedCookie(t *testing.T) {
	m := NewManager("test-secret", false)
	other := NewManager("other-secret", false)

	rec := httptest.NewRecorder()
	require.NoError(t, other.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), 7))

	_, ok := m.UserID(roundTrip(rec))
	assert.False(t, ok)
}
