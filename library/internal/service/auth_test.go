package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)

	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u model.NewUser) (model.User, error) {
			require.Equal(t, auth.RoleStudent, u.Role)
			require.NotEqual(t, "password1", u.PasswordHash)
			return model.User{ID: 10, Name: u.Name, Email: u.Email, Role: u.Role, PasswordHash: u.PasswordHash}, nil
		})
	repo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s model.Session) error {
			require.Equal(t, 10, s.UserID)
			require.NotEmpty(t, s.ID)
			return nil
		})

	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		Name: " Ada ", Email: "ada@example.com", Password: "password1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Ada", resp.User.Name)
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	hash, err := service.HashPassword("password1")
	require.NoError(t, err)
	user := model.User{ID: 4, Email: "ada@example.com", Role: auth.RoleLibrarian, PasswordHash: hash}

	tests := []struct {
		name     string
		password string
		found    bool
		wantErr  error
	}{
		{name: "ok", password: "password1", found: true},
		{name: "wrong password", password: "nope", found: true, wantErr: errs.ErrInvalidCredentials},
		{name: "unknown email", password: "password1", wantErr: errs.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, _ := newService(t)
			if tt.found {
				repo.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(user, nil)
			} else {
				repo.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(model.User{}, errs.NewNotFound("User not found"))
			}
			if tt.wantErr == nil {
				repo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
			}

			resp, err := svc.Login(context.Background(), model.LoginRequest{Email: user.Email, Password: tt.password})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, user.ID, resp.User.ID)

			claims, err := auth.NewTokenManager(auth.Config{Secret: "secret"}).Parse(resp.Token)
			require.NoError(t, err)
			require.Equal(t, auth.RoleLibrarian, claims.Profile.Role)
		})
	}
}

func TestService_Logout(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	repo.EXPECT().DeleteSession(gomock.Any(), "sid").Return(nil)
	require.NoError(t, svc.Logout(context.Background(), auth.Identity{UserID: 1, SessionID: "sid"}))
}
