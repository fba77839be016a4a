package database

import (
	"context"
	"crypto/rand"
	"devtrack/models"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionTTL = 30 * 24 * time.Hour

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

const userColumns = "id, username, email, password_hash, created_at, updated_at"

func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	// Pre-check for a friendlier error than the unique-index violation.
	var existingEmail, existingUsername string
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(email) FILTER (WHERE email = $1), ''),
		        COALESCE(MAX(username) FILTER (WHERE username = $2), '')
		 FROM users WHERE email = $1 OR username = $2`,
		email, username,
	).Scan(&existingEmail, &existingUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if existingEmail != "" {
		return nil, models.ErrEmailTaken
	}
	if existingUsername != "" {
		return nil, models.ErrUsernameTaken
	}

	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(db.Pool.QueryRow(ctx, query, username, email, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user: %s (ID: %s)", user.Username, user.ID)
	return user, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (db *DB) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(db.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser changes username/email/password hash. Duplicate checks exclude
// the user's own row.
func (db *DB) UpdateUser(ctx context.Context, userID uuid.UUID, username, email, passwordHash string) (*models.User, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`, email, userID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, models.ErrEmailTaken
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE username = $1 AND id <> $2`, username, userID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, models.ErrUsernameTaken
	}

	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns

	user, err := scanUser(db.Pool.QueryRow(ctx, query, username, email, passwordHash, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// CreateSession mints a random bearer token for the user.
func (db *DB) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	expires := time.Now().Add(sessionTTL)
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expires,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// GetUserByToken resolves a bearer token to its user. Expired or unknown
// tokens return ErrInvalidToken.
func (db *DB) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW()
	`

	user, err := scanUser(db.Pool.QueryRow(ctx, query, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
