package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS points (
		tag          TEXT PRIMARY KEY,
		engunits     TEXT,
		descriptor   TEXT,
		step         BOOLEAN NOT NULL DEFAULT false,
		creationdate TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS attributes (
		element     TEXT NOT NULL,
		name        TEXT NOT NULL,
		parent      TEXT,
		tag         TEXT REFERENCES points (tag),
		default_uom TEXT,
		description TEXT,
		PRIMARY KEY (element, name)
	)`,
	`CREATE TABLE IF NOT EXISTS time_series_data (
		tag   TEXT NOT NULL,
		time  TIMESTAMPTZ NOT NULL,
		value DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS time_series_data_tag_time_idx ON time_series_data (tag, time)`,
	`SELECT create_hypertable('time_series_data', 'time', if_not_exists => TRUE)`,
}

const insertEvent = `INSERT INTO time_series_data (tag, time, value) VALUES ($1, $2, $3)`
