package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// schema mirrors the MySQL tables closely enough for repository tests.
const schema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	avatar TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	handle TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	skills TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	github_username TEXT NOT NULL DEFAULT '',
	youtube TEXT NOT NULL DEFAULT '',
	twitter TEXT NOT NULL DEFAULT '',
	facebook TEXT NOT NULL DEFAULT '',
	linkedin TEXT NOT NULL DEFAULT '',
	instagram TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE experiences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	from_date TIMESTAMP NOT NULL,
	to_date TIMESTAMP,
	current INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE educations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL,
	school TEXT NOT NULL,
	degree TEXT NOT NULL,
	field_of_study TEXT NOT NULL,
	from_date TIMESTAMP NOT NULL,
	to_date TIMESTAMP,
	current INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	name TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE post_likes (
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	UNIQUE (post_id, user_id)
);
CREATE TABLE post_comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	name TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
`

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection so every statement sees the same in-memory store.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}
