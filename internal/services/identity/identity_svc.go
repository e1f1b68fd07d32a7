//go:generate go run go.uber.org/mock/mockgen -source=identity_svc.go -destination=../../mocks/mock_identity_svc.go -package=mocks
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	uniqueViolation   = "23505"
	defaultTokenTTL   = time.Hour
	minPasswordLength = 8
)

var (
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// RegisterInput is validated before anything touches the database.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is what register and login hand back to the client.
type Session struct {
	Token                        string `json:"token"`
	UserID                       string `json:"userId"`
	Username                     string `json:"username"`
	ValueIdentificationCompleted bool   `json:"valueIdentificationCompleted"`
}

type UserDTO struct {
	ID                           string    `json:"id"`
	Username                     string    `json:"username"`
	Email                        string    `json:"email"`
	CreatedAt                    time.Time `json:"createdAt"`
	IsVerified                   bool      `json:"isVerified"`
	ValueIdentificationCompleted bool      `json:"valueIdentificationCompleted"`
	IdentifiedValues             string    `json:"identifiedValues"`
	DarkMode                     bool      `json:"darkMode"`
}

type IIdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) (*Claims, error)
	GetUser(ctx context.Context, userID string) (*UserDTO, error)
	CompleteValueIdentification(ctx context.Context, userID, values string) error
}

type identityService struct {
	db       *sql.DB
	tokens   tokenSigner
	validate *validator.Validate
}

var _ IIdentityService = (*identityService)(nil)

func NewIdentityService(db *sql.DB, secret string, tokenTTL time.Duration) IIdentityService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &identityService{
		db:       db,
		tokens:   tokenSigner{secret: []byte(secret), ttl: tokenTTL, now: time.Now},
		validate: validator.New(),
	}
}

// ValidationError wraps input problems so handlers can answer 400.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func (svc *identityService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := svc.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			switch verrs[0].Field() {
			case "Email":
				return nil, &ValidationError{Msg: "Invalid email format"}
			case "Password":
				if verrs[0].Tag() == "max" {
					return nil, &ValidationError{Msg: "Password must be at most 72 characters long"}
				}
				return nil, &ValidationError{Msg: fmt.Sprintf("Password must be at least %d characters long", minPasswordLength)}
			}
		}
		return nil, &ValidationError{Msg: "All fields are required"}
	}

	var exists int
	err := svc.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = $1 OR username = $2 LIMIT 1`,
		in.Email, in.Username).Scan(&exists)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	var id string
	err = svc.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash)
		      VALUES ($1, $2, $3)
		   RETURNING id`,
		in.Username, in.Email, string(hash)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUserExists
		}
		return nil, err
	}
	zap.L().Info("identity.registered", zap.String("user", id))

	token, err := svc.tokens.sign(id, in.Username)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, UserID: id, Username: in.Username}, nil
}

func (svc *identityService) Login(ctx context.Context, email, password string) (*Session, error) {
	var (
		id, username, hash string
		completed          bool
	)
	err := svc.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, value_identification_completed
		   FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&id, &username, &hash, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := svc.tokens.sign(id, username)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:                        token,
		UserID:                       id,
		Username:                     username,
		ValueIdentificationCompleted: completed,
	}, nil
}

// Verify checks a bearer token without touching the database.
func (svc *identityService) Verify(_ context.Context, token string) (*Claims, error) {
	return svc.tokens.parse(token)
}

func (svc *identityService) GetUser(ctx context.Context, userID string) (*UserDTO, error) {
	const q = `SELECT id, username, email, created_at, is_verified,
	                  value_identification_completed, identified_values, dark_mode
	             FROM users WHERE id = $1`
	u := &UserDTO{}
	err := svc.db.QueryRowContext(ctx, q, userID).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.IsVerified,
		&u.ValueIdentificationCompleted, &u.IdentifiedValues, &u.DarkMode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (svc *identityService) CompleteValueIdentification(ctx context.Context, userID, values string) error {
	res, err := svc.db.ExecContext(ctx,
		`UPDATE users
		    SET identified_values = $2,
		        value_identification_completed = TRUE
		  WHERE id = $1`,
		userID, values)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}
