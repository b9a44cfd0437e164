package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryanwahyu/videoai/internal/domain/users"
	"github.com/bryanwahyu/videoai/internal/infra/db/sqlite"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newService(t *testing.T) (*Service, *fixedClock) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Connect(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	clock := &fixedClock{t: time.Now().UTC().Truncate(time.Second)}
	return &Service{
		Users:    sqlite.NewUserRepository(db),
		Secret:   []byte("test-secret"),
		HashCost: bcrypt.MinCost,
		Clock:    clock,
	}, clock
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupCommand{Name: " Ada ", Email: "Ada@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err = svc.Signup(ctx, SignupCommand{Name: "Again", Email: "ada@example.com", Password: "x"})
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	tok, err := svc.Login(ctx, "ADA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	who, err := svc.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, who.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenClaims(t *testing.T) {
	svc, clock := newService(t)

	signed, err := svc.IssueToken(42)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (any, error) {
		assert.Equal(t, "HS256", tok.Method.Alg())
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(clock.Now))
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, clock.t.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestAuthenticateRejects(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupCommand{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	valid, err := svc.IssueToken(u.ID)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &Service{Users: svc.Users, Secret: []byte("other"), Clock: clock}
		forged, err := other.IssueToken(u.ID)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "abc",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		})
		signed, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, err := svc.IssueToken(9999)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, ghost)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		later := &Service{Users: svc.Users, Secret: svc.Secret, Clock: &fixedClock{t: clock.t.Add(8 * 24 * time.Hour)}}
		_, err := later.Authenticate(ctx, valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

type failingUsers struct{ users.Repository }

func (failingUsers) GetByID(context.Context, int64) (*users.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticateRepositoryFailure(t *testing.T) {
	svc, _ := newService(t)
	tok, err := svc.IssueToken(1)
	require.NoError(t, err)
	svc.Users = failingUsers{}

	_, err = svc.Authenticate(context.Background(), tok)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}
