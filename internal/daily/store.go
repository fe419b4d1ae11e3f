// internal/daily/store.go
//
// SQLite persistence for the daily puzzle.
//   - AlreadyPlayed: one completion per player per date.
//   - InsertResult: first result wins (INSERT OR IGNORE on user_id+date).
//   - Leaderboard: fastest times for a date. Guests (no users row) are listed
//     without an ID so their anonymous cookie value never leaves the server.

package daily

import (
	"context"
	"database/sql"
)

// Result is one player's completion of a daily puzzle.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Size      int    `json:"size"`
	Words     int    `json:"words"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, size, words, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.Size, r.Words, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID    string `json:"userId,omitempty"` // empty for guests
	Username  string `json:"username,omitempty"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns the fastest results for date. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.id, ''), COALESCE(u.username, ''), d.elapsed_ms
		 FROM daily_results d
		 LEFT JOIN users u ON u.id = d.user_id
		 WHERE d.date=?
		 ORDER BY d.elapsed_ms ASC, d.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
