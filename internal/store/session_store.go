package store

import (
	"database/sql"
	"time"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

// SQLiteSessionStore implements agent.SessionStore backed by SQLite.
type SQLiteSessionStore struct {
	db *DB
}

// NewSQLiteSessionStore creates a session store using the given database.
func NewSQLiteSessionStore(db *DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Get returns a session with its turns, or nil if unknown.
func (s *SQLiteSessionStore) Get(id string) *domain.Session {
	var sess domain.Session
	var target, offer sql.NullInt64
	var lastUpdated, createdAt, updatedAt string

	err := s.db.sql.QueryRow(
		`SELECT id, user_name, scenario, step, target, offer, band, last_updated, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(
		&sess.ID, &sess.UserName, &sess.State.Scenario, &sess.State.Step,
		&target, &offer, &sess.State.Band, &lastUpdated, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil
	}

	if target.Valid {
		n := int(target.Int64)
		sess.State.Target = &n
	}
	if offer.Valid {
		n := int(offer.Int64)
		sess.State.Offer = &n
	}
	sess.State.LastUpdated, _ = time.Parse(time.DateTime, lastUpdated)
	sess.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	sess.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	sess.Turns = s.loadTurns(id)
	return &sess
}

// Create inserts a new session row.
func (s *SQLiteSessionStore) Create(sess *domain.Session) {
	_, err := s.db.sql.Exec(
		`INSERT INTO sessions (id, user_name, scenario, step, target, offer, band, last_updated, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserName, string(sess.State.Scenario), sess.State.Step,
		nullableInt(sess.State.Target), nullableInt(sess.State.Offer), string(sess.State.Band),
		formatTime(sess.State.LastUpdated), formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", sess.ID).Msg("failed to create session")
	}
}

// SaveState persists the session's user name and negotiation state.
func (s *SQLiteSessionStore) SaveState(sess *domain.Session) {
	_, err := s.db.sql.Exec(
		`UPDATE sessions SET user_name = ?, scenario = ?, step = ?, target = ?, offer = ?, band = ?,
		        last_updated = ?, updated_at = ?
		 WHERE id = ?`,
		sess.UserName, string(sess.State.Scenario), sess.State.Step,
		nullableInt(sess.State.Target), nullableInt(sess.State.Offer), string(sess.State.Band),
		formatTime(sess.State.LastUpdated), formatTime(time.Now()), sess.ID,
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", sess.ID).Msg("failed to save session state")
	}
}

// AppendTurn adds a chat turn to a session.
func (s *SQLiteSessionStore) AppendTurn(sessionID string, turn domain.Turn) {
	ts := turn.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.sql.Exec(
		`INSERT INTO turns (session_id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
		sessionID, turn.Role, turn.Content, formatTime(ts),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", sessionID).Msg("failed to append turn")
	}
}

// Prune drops all but the most recent keep turns of a session.
func (s *SQLiteSessionStore) Prune(sessionID string, keep int) {
	if keep <= 0 {
		return
	}
	_, err := s.db.sql.Exec(
		`DELETE FROM turns WHERE session_id = ? AND id NOT IN (
			SELECT id FROM turns WHERE session_id = ? ORDER BY id DESC LIMIT ?
		)`,
		sessionID, sessionID, keep,
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", sessionID).Msg("failed to prune turns")
	}
}

// List returns all session IDs, most recently updated first.
func (s *SQLiteSessionStore) List() []string {
	rows, err := s.db.sql.Query(`SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *SQLiteSessionStore) loadTurns(sessionID string) []domain.Turn {
	rows, err := s.db.sql.Query(
		`SELECT role, content, timestamp FROM turns WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		var ts string
		if err := rows.Scan(&t.Role, &t.Content, &ts); err != nil {
			continue
		}
		t.Timestamp, _ = time.Parse(time.DateTime, ts)
		turns = append(turns, t)
	}
	return turns
}

func nullableInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.DateTime)
}
