// Package auth owns credential storage and verification. Password hashes
// never leave this package: the domain User type does not carry one, and the
// row queries that read it keep it local.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/geocoder89/accounthub/internal/dbx"
	"github.com/geocoder89/accounthub/internal/domain/user"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/geocoder89/accounthub/internal/security"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken   = errors.New("email already in use")
	ErrUserNotFound = errors.New("user not found")
)

type Service struct {
	prom *observability.Prom
}

func NewService(prom *observability.Prom) *Service {
	return &Service{prom: prom}
}

func (s *Service) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveDB(op, fn)
	}
	return fn()
}

type CreateUserParams struct {
	Email       string
	Name        string
	Password    string
	TosAccepted bool
}

// CreateUser hashes the password and inserts a new row, returning the
// generated id. Email uniqueness is enforced by the database, not pre-checked;
// a duplicate surfaces as ErrEmailTaken.
func (s *Service) CreateUser(ctx context.Context, q dbx.DBTX, params CreateUserParams) (int64, error) {
	hash, err := security.HashPassword(params.Password)

	if err != nil {
		return 0, err
	}

	var id int64

	err = s.observe("users.create", func() error {
		return q.QueryRowContext(ctx,
			`INSERT INTO user_t (email, name, tos_accepted, password_hash)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			params.Email, nullIfEmpty(params.Name), params.TosAccepted, hash,
		).Scan(&id)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}

		return 0, err
	}

	return id, nil
}

// AuthenticateUser looks the user up by exact email and verifies the password
// against the stored hash. Unknown email and wrong password both come back as
// ErrInvalidCredentials. An unknown email returns before any bcrypt verify
// runs, which is observable as a timing difference.
func (s *Service) AuthenticateUser(ctx context.Context, q dbx.DBTX, email, password string) (int64, error) {
	var (
		id   int64
		hash []byte
	)

	err := s.observe("users.authenticate", func() error {
		return q.QueryRowContext(ctx,
			`SELECT id, password_hash FROM user_t WHERE email = $1`,
			email,
		).Scan(&id, &hash)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCredentials
		}

		return 0, err
	}

	if security.CheckPassword(hash, password) != nil {
		return 0, ErrInvalidCredentials
	}

	return id, nil
}

func (s *Service) GetUser(ctx context.Context, q dbx.DBTX, id int64) (user.User, error) {
	var (
		u    user.User
		name sql.NullString
	)

	err := s.observe("users.get", func() error {
		return q.QueryRowContext(ctx,
			`SELECT id, email, name, tos_accepted FROM user_t WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Email, &name, &u.TosAccepted)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	if name.Valid {
		u.Name = &name.String
	}

	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, q dbx.DBTX) ([]user.User, error) {
	var users []user.User

	err := s.observe("users.list", func() error {
		rows, err := q.QueryContext(ctx,
			`SELECT id, email, name, tos_accepted FROM user_t ORDER BY id`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var (
				u    user.User
				name sql.NullString
			)

			if err := rows.Scan(&u.ID, &u.Email, &name, &u.TosAccepted); err != nil {
				return err
			}

			if name.Valid {
				u.Name = &name.String
			}

			users = append(users, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return users, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation recognizes a unique-constraint error from Postgres by
// code and from the SQLite driver used in tests by message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
