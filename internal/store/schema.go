package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    options_key          TEXT NOT NULL DEFAULT '',
    rows_read            INTEGER NOT NULL DEFAULT 0,
    rejected             INTEGER NOT NULL DEFAULT 0,
    duplicates           INTEGER NOT NULL DEFAULT 0,
    warnings             TEXT NOT NULL DEFAULT '',
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    country              TEXT NOT NULL,
    year                 INTEGER NOT NULL,
    sex                  TEXT NOT NULL,
    age_group            TEXT NOT NULL,
    suicides_no          INTEGER NOT NULL,
    population           INTEGER NOT NULL,
    rate_per_100k        REAL NOT NULL,
    hdi_for_year         REAL,
    gdp_for_year         REAL,
    gdp_per_capita       REAL,
    generation           TEXT,
    income_category      TEXT,
    PRIMARY KEY (file_path, seq)
);

CREATE INDEX IF NOT EXISTS idx_records_country ON records(country);
`

// trackerColumnsAdded lists file_tracker columns newer than the first cache
// layout. Opening an older cache adds them and drops its entries, since the
// stored parse outcome is incomplete without them.
var trackerColumnsAdded = []string{
	"warnings TEXT NOT NULL DEFAULT ''",
}
