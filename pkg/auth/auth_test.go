package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueParse(t *testing.T) {
	t.Parallel()
	m := auth.NewTokenManager(auth.Config{Secret: "secret", TokenTTL: time.Hour})

	tok, err := m.Issue(42, auth.RoleLibrarian)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	require.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	claims, err := m.Parse(tok.Value)
	require.NoError(t, err)
	require.Equal(t, 42, claims.Profile.UserID)
	require.Equal(t, auth.RoleLibrarian, claims.Profile.Role)
	require.Equal(t, tok.SessionID.String(), claims.ID)
}

func TestTokenManager_ParseRejects(t *testing.T) {
	t.Parallel()
	m := auth.NewTokenManager(auth.Config{Secret: "secret"})
	other := auth.NewTokenManager(auth.Config{Secret: "other"})

	tok, err := other.Issue(1, auth.RoleStudent)
	require.NoError(t, err)

	_, err = m.Parse(tok.Value)
	require.Error(t, err)

	_, err = m.Parse("garbage")
	require.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	_, ok := auth.FromContext(context.Background())
	require.False(t, ok)

	ctx := auth.SetAuthContext(context.Background(), auth.Identity{UserID: 7, Role: auth.RoleAdmin})
	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, 7, id.UserID)
	require.True(t, id.IsStaff())
	require.False(t, auth.IsStaff(auth.RoleStudent))
}
