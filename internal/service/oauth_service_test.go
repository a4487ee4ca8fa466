package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoginURLWithoutCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	svc := NewOAuthService(nil, nopLogger{})

	_, err := svc.GetLoginURL("google")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)

	_, err = svc.HandleCallback(context.Background(), "google", "some-code")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}

func TestGetLoginURL(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/oauth/v1/google/callback")

	svc := NewOAuthService(nil, nopLogger{})

	url, err := svc.GetLoginURL("google")
	require.NoError(t, err)
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=")

	_, err = svc.GetLoginURL("github")
	assert.Error(t, err)
}

func TestGetLoginURLStateIsFresh(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	svc := NewOAuthService(nil, nopLogger{})

	a, err := svc.GetLoginURL("google")
	require.NoError(t, err)
	b, err := svc.GetLoginURL("google")
	require.NoError(t, err)

	assert.NotEqual(t, stateParam(a), stateParam(b))
}

func stateParam(url string) string {
	for _, part := range strings.Split(url, "&") {
		if idx := strings.Index(part, "state="); idx >= 0 {
			return part[idx+len("state="):]
		}
	}
	return ""
}
