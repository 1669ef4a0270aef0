package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/pkg/tokens"
)

type authFixture struct {
	svc  *AuthService
	repo *repo.GormRepo
	user *models.User
	now  time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	r := newTestRepo(t)
	f := &authFixture{
		repo: r,
		user: mustUser(t, r, "administrator", "password"),
		now:  time.Now().UTC().Truncate(time.Second),
	}
	f.svc = NewAuthService(r, tokens.Signer{
		Secret:   []byte("test-secret"),
		Issuer:   "order-management",
		Audience: "order-management-clients",
		Duration: time.Hour,
	}, 7, nil)
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func (f *authFixture) tokenRows(t *testing.T) []models.RefreshToken {
	t.Helper()
	var rows []models.RefreshToken
	require.NoError(t, f.repo.DB.Order("id ASC").Find(&rows).Error)
	return rows
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	res, err := f.svc.SignIn(context.Background(), transport.SignInRequest{Username: "ADMINISTRATOR", Password: "password"})
	require.NoError(t, err)

	assert.Equal(t, "administrator", res.Username)
	assert.Equal(t, "administrator@example.com", res.Email)
	assert.NotEmpty(t, res.RefreshToken)
	assert.True(t, res.RefreshTokenExpiration.Equal(f.now.AddDate(0, 0, 7)))

	claims, err := f.svc.Signer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, claims.UID)
	assert.Equal(t, "administrator", claims.UniqueName)

	rows := f.tokenRows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, res.RefreshToken, rows[0].Token)
	assert.Equal(t, f.user.ID, rows[0].UserID)
	assert.Nil(t, rows[0].RevokedOn)
}

func TestSignIn_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown user", username: "nobody", password: "password"},
		{name: "blank password", username: "administrator", password: ""},
		{name: "blank username", username: " ", password: "password"},
		{name: "wrong password", username: "administrator", password: "Password"},
		{name: "no stored password", username: "nopass", password: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAuthFixture(t)
			mustUser(t, f.repo, "nopass", "")

			_, err := f.svc.SignIn(context.Background(), transport.SignInRequest{Username: tt.username, Password: tt.password})
			require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
			assert.Empty(t, f.tokenRows(t))
		})
	}
}

func TestRefreshToken_Rotates(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	first, err := f.svc.SignIn(ctx, transport.SignInRequest{Username: "administrator", Password: "password"})
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	second, err := f.svc.RefreshToken(ctx, transport.RefreshTokenRequest{Username: "Administrator", RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.True(t, second.RefreshTokenExpiration.Equal(f.now.AddDate(0, 0, 7)))

	rows := f.tokenRows(t)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].RevokedOn)
	assert.True(t, rows[0].RevokedOn.Equal(f.now))
	assert.Nil(t, rows[1].RevokedOn)
	assert.Equal(t, second.RefreshToken, rows[1].Token)

	_, err = f.svc.RefreshToken(ctx, transport.RefreshTokenRequest{Username: "administrator", RefreshToken: first.RefreshToken})
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestRefreshToken_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prepare func(t *testing.T, f *authFixture, token string) transport.RefreshTokenRequest
		want    error
	}{
		{
			name: "blank token",
			prepare: func(_ *testing.T, _ *authFixture, _ string) transport.RefreshTokenRequest {
				return transport.RefreshTokenRequest{Username: "administrator"}
			},
			want: apperr.ErrTokenNotFound,
		},
		{
			name: "blank username",
			prepare: func(_ *testing.T, _ *authFixture, token string) transport.RefreshTokenRequest {
				return transport.RefreshTokenRequest{RefreshToken: token}
			},
			want: apperr.ErrTokenNotFound,
		},
		{
			name: "unknown token",
			prepare: func(_ *testing.T, _ *authFixture, _ string) transport.RefreshTokenRequest {
				return transport.RefreshTokenRequest{Username: "administrator", RefreshToken: "nope"}
			},
			want: apperr.ErrTokenNotFound,
		},
		{
			name: "token of another user",
			prepare: func(t *testing.T, f *authFixture, token string) transport.RefreshTokenRequest {
				mustUser(t, f.repo, "other", "password")
				return transport.RefreshTokenRequest{Username: "other", RefreshToken: token}
			},
			want: apperr.ErrTokenNotFound,
		},
		{
			name: "expired",
			prepare: func(_ *testing.T, f *authFixture, token string) transport.RefreshTokenRequest {
				f.now = f.now.AddDate(0, 0, 7)
				return transport.RefreshTokenRequest{Username: "administrator", RefreshToken: token}
			},
			want: apperr.ErrTokenInvalid,
		},
		{
			name: "user removed",
			prepare: func(t *testing.T, f *authFixture, token string) transport.RefreshTokenRequest {
				require.NoError(t, f.repo.RemoveUser(context.Background(), f.user.ID))
				return transport.RefreshTokenRequest{Username: "administrator", RefreshToken: token}
			},
			want: apperr.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAuthFixture(t)
			ctx := context.Background()
			res, err := f.svc.SignIn(ctx, transport.SignInRequest{Username: "administrator", Password: "password"})
			require.NoError(t, err)

			_, err = f.svc.RefreshToken(ctx, tt.prepare(t, f, res.RefreshToken))
			require.ErrorIs(t, err, tt.want)

			rows := f.tokenRows(t)
			require.Len(t, rows, 1)
			assert.Nil(t, rows[0].RevokedOn)
		})
	}
}

func TestRefreshToken_RollsBackWhenIssueFails(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	res, err := f.svc.SignIn(ctx, transport.SignInRequest{Username: "administrator", Password: "password"})
	require.NoError(t, err)

	f.svc.NewRefreshToken = func() (string, error) { return "", errBoom }

	_, err = f.svc.RefreshToken(ctx, transport.RefreshTokenRequest{Username: "administrator", RefreshToken: res.RefreshToken})
	require.ErrorIs(t, err, errBoom)

	rows := f.tokenRows(t)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].RevokedOn, "old token must stay active")
	assert.True(t, rows[0].IsActive(f.now))

	f.svc.NewRefreshToken = tokens.NewRefreshToken
	_, err = f.svc.RefreshToken(ctx, transport.RefreshTokenRequest{Username: "administrator", RefreshToken: res.RefreshToken})
	require.NoError(t, err)
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	res, err := f.svc.SignIn(ctx, transport.SignInRequest{Username: "administrator", Password: "password"})
	require.NoError(t, err)

	req := transport.RefreshTokenRequest{Username: "administrator", RefreshToken: res.RefreshToken}
	require.NoError(t, f.svc.SignOut(ctx, req))
	require.ErrorIs(t, f.svc.SignOut(ctx, req), apperr.ErrTokenInvalid)

	_, err = f.svc.RefreshToken(ctx, req)
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)

	err = f.svc.SignOut(ctx, transport.RefreshTokenRequest{Username: "administrator", RefreshToken: "nope"})
	require.ErrorIs(t, err, apperr.ErrTokenNotFound)
}
