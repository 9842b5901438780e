package db

type migration struct {
	version int
	name    string
	up      string
}

var migrations = []migration{
	{
		version: 1,
		name:    "preferences",
		up: `
			CREATE TABLE preferences (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
		`,
	},
	{
		version: 2,
		name:    "events",
		up: `
			CREATE TABLE events (
				id TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				type TEXT NOT NULL,
				entity_type TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				payload_json TEXT,
				metadata_json TEXT
			);
			CREATE INDEX idx_events_entity ON events (entity_type, entity_id, timestamp);
			CREATE INDEX idx_events_type ON events (type, timestamp);
		`,
	},
}
