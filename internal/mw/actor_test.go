package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func echoActor(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := Actor(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(name))
	})
}

func TestActorMiddleware(t *testing.T) {
	valid, err := IssueActorToken(testSecret, "Asha", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueActorToken(testSecret, "Asha", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	foreign, err := IssueActorToken("other-secret", "Asha", time.Hour, time.Now())
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, ActorClaims{Name: "Asha"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "no header uses fallback", wantStatus: http.StatusOK, wantBody: "Manager"},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "Asha"},
		{name: "lower-case scheme", header: "bearer " + valid, wantStatus: http.StatusOK, wantBody: "Asha"},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "alg none", header: "Bearer " + unsigned, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
	}

	h := ActorMiddleware(testSecret, "Manager")(echoActor(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"Unauthorized"`)
			}
		})
	}
}

func TestActorMiddleware_NoSecretRejectsTokens(t *testing.T) {
	token, err := IssueActorToken(testSecret, "Asha", time.Hour, time.Now())
	require.NoError(t, err)

	h := ActorMiddleware("", "Manager")(echoActor(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIssueActorToken(t *testing.T) {
	_, err := IssueActorToken("", "Asha", 0, time.Now())
	assert.ErrorIs(t, err, ErrNoSecret)

	token, err := IssueActorToken(testSecret, "  Ops Desk ", 0, time.Now())
	require.NoError(t, err)
	name, err := ParseActorToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "Ops Desk", name)

	empty, err := IssueActorToken(testSecret, "", 0, time.Now())
	require.NoError(t, err)
	_, err = ParseActorToken(testSecret, empty)
	assert.Error(t, err)
}
