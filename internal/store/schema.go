package store

import (
	"context"
	"fmt"
)

// schemaSQL creates the three data tables, their indexes and updated_at
// triggers, and the singleton metadata table. Idempotent: safe to re-run.
const schemaSQL = `
-- Occupations lookup table
CREATE TABLE IF NOT EXISTS occupations (
	id SERIAL PRIMARY KEY,
	occ_code VARCHAR(10) UNIQUE NOT NULL,
	occ_title VARCHAR(255) NOT NULL,
	occ_group VARCHAR(20) NOT NULL DEFAULT 'detailed',
	slug VARCHAR(255) UNIQUE NOT NULL,
	is_indexable BOOLEAN DEFAULT TRUE,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	updated_at TIMESTAMPTZ DEFAULT NOW()
);

-- Metro areas lookup table
CREATE TABLE IF NOT EXISTS metros (
	id SERIAL PRIMARY KEY,
	area_code VARCHAR(10) UNIQUE NOT NULL,
	area_title VARCHAR(255) NOT NULL,
	slug VARCHAR(255) UNIQUE NOT NULL,
	state_abbr VARCHAR(5),
	is_indexable BOOLEAN DEFAULT TRUE,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	updated_at TIMESTAMPTZ DEFAULT NOW()
);

-- Main salary data (occupation x metro combinations)
CREATE TABLE IF NOT EXISTS salary_data (
	id SERIAL PRIMARY KEY,
	occupation_id INTEGER REFERENCES occupations(id) ON DELETE CASCADE,
	metro_id INTEGER REFERENCES metros(id) ON DELETE CASCADE,
	tot_emp BIGINT,
	h_mean DECIMAL(10,2),
	a_mean DECIMAL(12,2),
	a_median DECIMAL(12,2),
	a_pct10 DECIMAL(12,2),
	a_pct25 DECIMAL(12,2),
	a_pct75 DECIMAL(12,2),
	a_pct90 DECIMAL(12,2),
	dqs DECIMAL(3,2) DEFAULT 0.00,
	is_indexable BOOLEAN DEFAULT TRUE,
	data_year INTEGER DEFAULT 2024,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	updated_at TIMESTAMPTZ DEFAULT NOW(),
	UNIQUE(occupation_id, metro_id)
);

-- Single-row data vintage tracker
CREATE TABLE IF NOT EXISTS data_metadata (
	id INTEGER PRIMARY KEY DEFAULT 1,
	data_period VARCHAR(20) NOT NULL,
	bls_release_date DATE,
	last_ingested_at TIMESTAMPTZ DEFAULT NOW(),
	last_checked_at TIMESTAMPTZ DEFAULT NOW(),
	record_count INTEGER,
	source_url TEXT,
	source_sha256 VARCHAR(64),
	run_id VARCHAR(36),
	CONSTRAINT single_row CHECK (id = 1)
);

CREATE INDEX IF NOT EXISTS idx_salary_occupation ON salary_data(occupation_id);
CREATE INDEX IF NOT EXISTS idx_salary_metro ON salary_data(metro_id);
CREATE INDEX IF NOT EXISTS idx_salary_indexable ON salary_data(is_indexable) WHERE is_indexable = TRUE;
CREATE INDEX IF NOT EXISTS idx_salary_dqs ON salary_data(dqs) WHERE dqs >= 0.5;
CREATE INDEX IF NOT EXISTS idx_occupations_slug ON occupations(slug);
CREATE INDEX IF NOT EXISTS idx_occupations_indexable ON occupations(is_indexable) WHERE is_indexable = TRUE;
CREATE INDEX IF NOT EXISTS idx_metros_slug ON metros(slug);
CREATE INDEX IF NOT EXISTS idx_metros_state ON metros(state_abbr);
CREATE INDEX IF NOT EXISTS idx_metros_indexable ON metros(is_indexable) WHERE is_indexable = TRUE;

CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
	NEW.updated_at = NOW();
	RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_occupations_updated_at ON occupations;
CREATE TRIGGER update_occupations_updated_at
	BEFORE UPDATE ON occupations
	FOR EACH ROW
	EXECUTE FUNCTION update_updated_at_column();

DROP TRIGGER IF EXISTS update_metros_updated_at ON metros;
CREATE TRIGGER update_metros_updated_at
	BEFORE UPDATE ON metros
	FOR EACH ROW
	EXECUTE FUNCTION update_updated_at_column();

DROP TRIGGER IF EXISTS update_salary_data_updated_at ON salary_data;
CREATE TRIGGER update_salary_data_updated_at
	BEFORE UPDATE ON salary_data
	FOR EACH ROW
	EXECUTE FUNCTION update_updated_at_column();
`

// Init creates the schema if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	s.logger.Info("schema ready")
	return nil
}
