package sqlite

const schema = `
CREATE TABLE event (
	name           TEXT NOT NULL,
	details        TEXT NOT NULL,
	start_date     TEXT NOT NULL,
	end_date       TEXT NOT NULL,
	last_change_ms INTEGER NOT NULL,
	last_save_ms   INTEGER NOT NULL
);

CREATE TABLE arenas (
	id   TEXT PRIMARY KEY,
	uid  TEXT NOT NULL,
	name TEXT NOT NULL
);

CREATE TABLE jump_classes (
	arena_id        TEXT NOT NULL REFERENCES arenas(id),
	id              INTEGER NOT NULL,
	number          TEXT NOT NULL,
	name            TEXT NOT NULL,
	article_id      TEXT,
	description     TEXT NOT NULL,
	height_cm       INTEGER NOT NULL,
	judge           TEXT NOT NULL,
	course_designer TEXT NOT NULL,
	places          INTEGER NOT NULL,
	PRIMARY KEY (arena_id, id)
);

CREATE TABLE riders (
	surname    TEXT NOT NULL,
	given_name TEXT NOT NULL,
	ea_number  TEXT,
	PRIMARY KEY (surname, given_name)
);

CREATE TABLE horses (
	name      TEXT PRIMARY KEY,
	ea_number TEXT
);

CREATE TABLE combos (
	id               TEXT PRIMARY KEY,
	uid              TEXT NOT NULL,
	rider_surname    TEXT,
	rider_given_name TEXT,
	horse_name       TEXT
);

CREATE TABLE rounds (
	id         INTEGER PRIMARY KEY,
	arena_id   TEXT NOT NULL,
	class_id   INTEGER NOT NULL,
	round_type TEXT NOT NULL,
	combo_id   TEXT NOT NULL,
	jump_pens  REAL NOT NULL,
	time_cs    INTEGER NOT NULL,
	time_pens  REAL NOT NULL,
	notes      TEXT NOT NULL,
	FOREIGN KEY (arena_id, class_id) REFERENCES jump_classes(arena_id, id)
);

CREATE TABLE faults (
	round_id INTEGER NOT NULL REFERENCES rounds(id),
	jump     INTEGER NOT NULL,
	kinds    TEXT NOT NULL
);
`
