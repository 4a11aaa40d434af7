// Package postgres provides an optional append-only result sink backed by a
// Postgres table, for studies whose output feeds downstream analysis instead
// of a flat file.
package postgres

import (
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS power_summaries (
	id              BIGSERIAL PRIMARY KEY,
	gen_id          TEXT NOT NULL,
	type            TEXT NOT NULL,
	dim             INTEGER NOT NULL,
	noise           DOUBLE PRECISION NOT NULL,
	obs_num         INTEGER NOT NULL,
	slice_technique TEXT NOT NULL,
	avg_c           DOUBLE PRECISION NOT NULL,
	std_c           DOUBLE PRECISION NOT NULL,
	power90         DOUBLE PRECISION NOT NULL,
	power95         DOUBLE PRECISION NOT NULL,
	power99         DOUBLE PRECISION NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const insertQuery = `
INSERT INTO power_summaries (
	gen_id, type, dim, noise, obs_num, slice_technique,
	avg_c, std_c, power90, power95, power99
) VALUES (
	:gen_id, :type, :dim, :noise, :obs_num, :slice_technique,
	:avg_c, :std_c, :power90, :power95, :power99
)`

// summaryRow maps a SummaryRecord onto the power_summaries table.
type summaryRow struct {
	GenID          string  `db:"gen_id"`
	Type           string  `db:"type"`
	Dim            int     `db:"dim"`
	Noise          float64 `db:"noise"`
	ObsNum         int     `db:"obs_num"`
	SliceTechnique string  `db:"slice_technique"`
	AvgC           float64 `db:"avg_c"`
	StdC           float64 `db:"std_c"`
	Power90        float64 `db:"power90"`
	Power95        float64 `db:"power95"`
	Power99        float64 `db:"power99"`
}

// Sink appends one row per record. Writes are mutex-serialized.
type Sink struct {
	mu sync.Mutex
	db *sqlx.DB
}

// New connects to the given DSN and bootstraps the power_summaries table.
func New(dsn string) (*Sink, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return &Sink{db: db}, nil
}

// Append inserts one summary record.
func (s *Sink) Append(rec power.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := summaryRow{
		GenID:          rec.GeneratorID,
		Type:           string(rec.Mode),
		Dim:            rec.Dimension,
		Noise:          rec.Noise,
		ObsNum:         rec.ObservationCount,
		SliceTechnique: rec.SliceTechnique,
		AvgC:           rec.MeanContrast,
		StdC:           rec.StdDevContrast,
		Power90:        rec.Power90,
		Power95:        rec.Power95,
		Power99:        rec.Power99,
	}
	if _, err := s.db.NamedExec(insertQuery, row); err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Sink) Close() error {
	if err := s.db.Close(); err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return nil
}
