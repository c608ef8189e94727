package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- One row per accepted sold listing. link is the dedup key: the same
-- listing URL never produces a second row. Prices are fixed-point
-- strings with 2 decimals.
CREATE TABLE IF NOT EXISTS manga_listings (
    listing_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    total_price TEXT NOT NULL,
    date_sold DATE,
    num_volumes INTEGER NOT NULL,
    price_per_volume TEXT,
    format TEXT NOT NULL,
    parse_source TEXT NOT NULL,
    link TEXT NOT NULL UNIQUE,
    scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_listings_title ON manga_listings(title);
CREATE INDEX IF NOT EXISTS idx_listings_format ON manga_listings(format);

-- Scrape runs: one row per pipeline invocation.
CREATE TABLE IF NOT EXISTS scrape_runs (
    run_id TEXT PRIMARY KEY,
    series TEXT NOT NULL,
    max_pages INTEGER NOT NULL,
    min_price TEXT NOT NULL,
    pages_processed INTEGER DEFAULT 0,
    accepted_count INTEGER DEFAULT 0,
    success BOOLEAN DEFAULT 0,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON scrape_runs(started_at DESC);
`
