package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const userTableDDL = `
CREATE TABLE IF NOT EXISTS user_t (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    name TEXT,
    tos_accepted BOOLEAN NOT NULL DEFAULT FALSE,
    password_hash BLOB NOT NULL
)`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(userTableDDL)
	require.NoError(t, err)

	return db
}

func TestCreateAndAuthenticateRoundTrip(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, db, CreateUserParams{
		Email:    "august@augustl.com",
		Name:     "August",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.AuthenticateUser(ctx, db, "august@augustl.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, id, got, "authentication must return the created id")
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, db, CreateUserParams{
		Email:    "known@example.com",
		Password: "correct password",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.AuthenticateUser(ctx, db, "known@example.com", "wrong password")
	_, unknownEmail := svc.AuthenticateUser(ctx, db, "nobody@example.com", "correct password")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail,
		"wrong password and unknown email must look the same to the caller")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, db, CreateUserParams{Email: "dup@example.com", Password: "first"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, db, CreateUserParams{Email: "dup@example.com", Password: "second"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStoredHashesAreSalted(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	firstID, err := svc.CreateUser(ctx, db, CreateUserParams{Email: "a@example.com", Password: "1234"})
	require.NoError(t, err)

	secondID, err := svc.CreateUser(ctx, db, CreateUserParams{Email: "b@example.com", Password: "1234"})
	require.NoError(t, err)

	var firstHash, secondHash []byte

	require.NoError(t, db.QueryRow(`SELECT password_hash FROM user_t WHERE id = $1`, firstID).Scan(&firstHash))
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM user_t WHERE id = $1`, secondID).Scan(&secondHash))

	assert.NotEqual(t, firstHash, secondHash, "identical passwords must not share a stored hash")
}

func TestGetUser(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, db, CreateUserParams{
		Email:       "named@example.com",
		Name:        "Named User",
		Password:    "password123",
		TosAccepted: true,
	})
	require.NoError(t, err)

	u, err := svc.GetUser(ctx, db, id)
	require.NoError(t, err)

	assert.Equal(t, id, u.ID)
	assert.Equal(t, "named@example.com", u.Email)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Named User", *u.Name)
	assert.True(t, u.TosAccepted)

	_, err = svc.GetUser(ctx, db, id+1000)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserNullableName(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, db, CreateUserParams{Email: "anon@example.com", Password: "password123"})
	require.NoError(t, err)

	u, err := svc.GetUser(ctx, db, id)
	require.NoError(t, err)
	assert.Nil(t, u.Name)
}

func TestListUsers(t *testing.T) {
	db := setupDB(t)
	svc := NewService(nil)
	ctx := context.Background()

	first, err := svc.CreateUser(ctx, db, CreateUserParams{Email: "one@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.CreateUser(ctx, db, CreateUserParams{Email: "two@example.com", Password: "password123"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx, db)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, first, users[0].ID)
	assert.Equal(t, second, users[1].ID)
}
