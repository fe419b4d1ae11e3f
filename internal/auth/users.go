// internal/auth/users.go
//
// User accounts backed by the users table.
// Responsibilities:
//   - Signup validation, bcrypt hashing and uniqueness checks.
//   - Lookup by ID / username and credential checks.
//   - Per-user puzzle stats (played, completed, best time).

package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// User matches the users table shape.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	PuzzlesPlayed    int       `json:"puzzlesPlayed"`
	PuzzlesCompleted int       `json:"puzzlesCompleted"`
	BestMs           *int64    `json:"bestMs,omitempty"`
}

// Users is the account repository.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// NormalizeUsername trims whitespace.
func NormalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8–72 chars")
	}
	return nil
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Create validates input, checks uniqueness, hashes the password and inserts a new user.
func (u *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = NormalizeUsername(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := HashPassword(pw)
	if err != nil {
		return nil, err
	}
	usr := &User{
		ID:           GenID(),
		Username:     username,
		PasswordHash: h,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err = u.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		usr.ID, usr.Username, usr.PasswordHash, usr.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return usr, nil
}

// Authenticate returns the user if username and pw match.
func (u *Users) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	usr, err := u.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil || !CheckPassword(usr.PasswordHash, pw) {
		return nil, ErrInvalidCredentials
	}
	return usr, nil
}

func (u *Users) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, puzzles_played, puzzles_completed, best_ms
	                    FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, puzzles_played, puzzles_completed, best_ms
	                    FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var usr User
	var created string
	var best sql.NullInt64
	if err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash, &created, &usr.PuzzlesPlayed, &usr.PuzzlesCompleted, &best); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	usr.CreatedAt, _ = time.Parse(time.RFC3339, created)
	if best.Valid {
		usr.BestMs = &best.Int64
	}
	return &usr, nil
}

// RecordStarted bumps puzzles_played.
func (u *Users) RecordStarted(ctx context.Context, userID string) error {
	_, err := u.db.ExecContext(ctx, `UPDATE users SET puzzles_played = puzzles_played + 1 WHERE id=?`, userID)
	return err
}

// RecordCompleted bumps puzzles_completed and keeps the best completion time.
func (u *Users) RecordCompleted(ctx context.Context, userID string, elapsedMs int64) error {
	_, err := u.db.ExecContext(ctx, `UPDATE users
	    SET puzzles_completed = puzzles_completed + 1,
	        best_ms = CASE WHEN best_ms IS NULL OR best_ms > ? THEN ? ELSE best_ms END
	    WHERE id=?`, elapsedMs, elapsedMs, userID)
	return err
}
