// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/rtcast/internal/models"
)

// Run is one estimation run to be stored.
type Run struct {
	ID          string
	GeneratedAt time.Time
	Locations   int
	Estimates   []models.Estimate
	Anomalies   []models.Anomaly
}

// InsertRun stores a run, its estimates and its anomalies in a single
// transaction. Either all rows are written or none are.
func (db *DB) InsertRun(ctx context.Context, t Tables, run Run) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO `+QuoteIdent(RunsTable)+` VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.GeneratedAt, run.Locations, len(run.Estimates), len(run.Anomalies),
	); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	if err = insertEstimates(ctx, tx, t.Estimates, run.ID, run.Estimates); err != nil {
		return err
	}
	if err = insertAnomalies(ctx, tx, t.Anomalies, run.ID, run.Anomalies); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

func insertEstimates(ctx context.Context, tx *sql.Tx, table, runID string, rows []models.Estimate) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+QuoteIdent(table)+` VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare estimate insert: %w", err)
	}
	defer closeWithLog(stmt, "estimate insert statement")

	for i := range rows {
		e := &rows[i]
		if _, err := stmt.ExecContext(ctx,
			runID, e.Location, e.Date, e.Rt, e.Lower, e.Upper,
			e.NewCases, e.PredMean, e.PredLower, e.PredUpper, e.Degenerate, e.Anomalous,
		); err != nil {
			return fmt.Errorf("failed to insert estimate %s %s: %w", e.Location, e.Date.Format(models.DateLayout), err)
		}
	}
	return nil
}

func insertAnomalies(ctx context.Context, tx *sql.Tx, table, runID string, rows []models.Anomaly) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+QuoteIdent(table)+` VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare anomaly insert: %w", err)
	}
	defer closeWithLog(stmt, "anomaly insert statement")

	for i := range rows {
		a := &rows[i]
		if _, err := stmt.ExecContext(ctx,
			runID, a.Location, a.Date, a.Observed, a.PredMean, a.Lower, a.Upper,
			a.AbsorbedLower, a.AbsorbedUpper, a.Iterations, a.Converged,
		); err != nil {
			return fmt.Errorf("failed to insert anomaly %s %s: %w", a.Location, a.Date.Format(models.DateLayout), err)
		}
	}
	return nil
}

// CountRows returns the number of rows stored for a run in table.
func (db *DB) CountRows(ctx context.Context, table, runID string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+QuoteIdent(table)+` WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

// LatestRunID returns the most recently generated run, or "" when none is stored.
func (db *DB) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := db.conn.QueryRowContext(ctx,
		`SELECT run_id FROM `+QuoteIdent(RunsTable)+` ORDER BY generated_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return id, nil
}
