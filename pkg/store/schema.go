package store

// SchemaDDL defines the SQLite schema for hunttrack state.
// Tables: sessions, session_loot, session_skills, loadouts, markups.
// Decimal amounts are stored as TEXT to keep them exact.
const SchemaDDL = `
-- One row per tracked session; stats holds the counters as a JSON object
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    elapsed_ms INTEGER NOT NULL DEFAULT 0,
    stats TEXT NOT NULL DEFAULT '{}',
    loadout TEXT NOT NULL DEFAULT 'default',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Loot tally per session and item
CREATE TABLE IF NOT EXISTS session_loot (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    tt_value TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (session_id, name)
);

-- Experience tally per session and skill
CREATE TABLE IF NOT EXISTS session_skills (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    exp_gain TEXT NOT NULL,
    PRIMARY KEY (session_id, name)
);

-- Equipped gear; key is the normalized name
CREATE TABLE IF NOT EXISTS loadouts (
    key TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    weapon TEXT NOT NULL DEFAULT '',
    amp TEXT NOT NULL DEFAULT '',
    scope TEXT NOT NULL DEFAULT '',
    sight_one TEXT NOT NULL DEFAULT '',
    sight_two TEXT NOT NULL DEFAULT '',
    decay TEXT NOT NULL DEFAULT '0',
    burn INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

-- Process-wide item markups
CREATE TABLE IF NOT EXISTS markups (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`
