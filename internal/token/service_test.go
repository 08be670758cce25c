package token

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/service-task-go/internal/apperror"
)

func testConfig() Config {
	return Config{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService(testConfig())

	pair, err := svc.Issue("acct-123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	subject, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acct-123", subject)

	subject, err = svc.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "acct-123", subject)
}

func TestService_VerifyExpired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = -time.Minute
	svc := NewService(cfg)

	pair, err := svc.Issue("acct-123")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.StatusCode(err))
}

func TestService_VerifyTampered(t *testing.T) {
	svc := NewService(testConfig())

	pair, err := svc.Issue("acct-123")
	require.NoError(t, err)

	// flip a character in the payload segment
	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.VerifyAccess(tampered)
	require.Error(t, err)
	assert.Equal(t, "invalid_token", apperror.SafeKind(err))
}

func TestService_VerifyWrongSecret(t *testing.T) {
	svc := NewService(testConfig())
	pair, err := svc.Issue("acct-123")
	require.NoError(t, err)

	other := NewService(Config{Secret: "other-secret", AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour})
	_, err = other.VerifyAccess(pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, "invalid_token", apperror.SafeKind(err))
}

func TestService_TokenTypeMismatch(t *testing.T) {
	svc := NewService(testConfig())
	pair, err := svc.Issue("acct-123")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.RefreshToken)
	assert.Error(t, err, "refresh token must not pass as access token")

	_, err = svc.VerifyRefresh(pair.AccessToken)
	assert.Error(t, err, "access token must not pass as refresh token")
}

func TestService_VerifyMalformed(t *testing.T) {
	svc := NewService(testConfig())

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "abc.def"},
		{"random segments", "a.b.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccess(tt.token)
			require.Error(t, err)
			// failure cause is never distinguishable from the outside
			assert.Equal(t, "invalid_token", apperror.SafeKind(err))
			assert.Equal(t, "invalid token", apperror.SafeMessage(err))
		})
	}
}
