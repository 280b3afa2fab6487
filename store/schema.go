package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
	name       TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS pages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT NOT NULL,
	path       TEXT NOT NULL UNIQUE,
	html       BLOB NOT NULL,
	fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pages_source ON pages(source);
`
