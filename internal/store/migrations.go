package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions and turns",
		SQL: `
			CREATE TABLE sessions (
				id           TEXT PRIMARY KEY,
				user_name    TEXT NOT NULL DEFAULT 'User',
				scenario     TEXT NOT NULL DEFAULT '',
				step         INTEGER NOT NULL DEFAULT 0,
				target       INTEGER,
				offer        INTEGER,
				band         TEXT NOT NULL DEFAULT '',
				last_updated TEXT NOT NULL DEFAULT (datetime('now')),
				created_at   TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE turns (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				role        TEXT NOT NULL,
				content     TEXT NOT NULL,
				timestamp   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_turns_session ON turns (session_id, id);
		`,
	},
}
