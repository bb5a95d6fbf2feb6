package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	pkgch "SignalPulse/pkg/clickhouse"
	applogger "SignalPulse/pkg/logger"
)

// CHSignalStore implements ResultSink backed by ClickHouse. Reports are
// stored twice: one row per report for read-back, one row per fused signal
// for per-symbol latest-signal queries.
type CHSignalStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSignalStore(ch *pkgch.Client) *CHSignalStore {
	return &CHSignalStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS signal_reports (
        ts           DateTime,
        mode         String,
        success_rate Float64,
        failure_count UInt32,
        payload      String
    ) ENGINE = MergeTree() ORDER BY ts`,
	`CREATE TABLE IF NOT EXISTS signals (
        ts              DateTime,
        symbol          String,
        mode            String,
        direction       String,
        confidence      Float64,
        current_price   Float64,
        predicted_price Float64,
        payload         String
    ) ENGINE = MergeTree() ORDER BY (symbol, ts)`,
}

func (s *CHSignalStore) Init(ctx context.Context) error {
	for _, stmt := range schemaStmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init signal schema: %w", err)
		}
	}
	return nil
}

func (s *CHSignalStore) StoreReport(ctx context.Context, r *models.BatchReport) error {
	start := time.Now()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	const reportQ = `INSERT INTO signal_reports (ts, mode, success_rate, failure_count, payload) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, reportQ,
		r.Timestamp, r.Mode, r.SuccessRate, uint32(r.FailureCount), string(payload),
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_report insert error",
				applogger.String("mode", r.Mode),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store report: %w", err)
	}

	for symbol, signal := range r.Signals {
		if err := s.storeSignal(ctx, r.Mode, symbol, signal); err != nil {
			return err
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse store_report ok",
			applogger.String("mode", r.Mode),
			applogger.Int("signals", len(r.Signals)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSignalStore) storeSignal(ctx context.Context, mode, symbol string, signal *models.FusedSignal) error {
	payload, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("marshal signal %s: %w", symbol, err)
	}
	const q = `INSERT INTO signals (ts, symbol, mode, direction, confidence, current_price, predicted_price, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		signal.Timestamp, symbol, mode, string(signal.Direction), signal.Confidence,
		signal.CurrentPrice, signal.PredictedPrice, string(payload),
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_signal insert error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signal %s: %w", symbol, err)
	}
	return nil
}

func (s *CHSignalStore) LatestSignal(ctx context.Context, symbol string) (*models.FusedSignal, error) {
	const q = `SELECT payload FROM signals WHERE symbol = ? ORDER BY ts DESC LIMIT 1`
	var payload string
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if s.l != nil {
			s.l.Error("clickhouse latest_signal query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest signal: %w", err)
	}

	var signal models.FusedSignal
	if err := json.Unmarshal([]byte(payload), &signal); err != nil {
		return nil, fmt.Errorf("unmarshal signal %s: %w", symbol, err)
	}
	return &signal, nil
}

func (s *CHSignalStore) LatestReports(ctx context.Context, limit int) ([]*models.BatchReport, error) {
	const q = `SELECT payload FROM signal_reports ORDER BY ts DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_reports query error",
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest reports: %w", err)
	}
	defer rows.Close()

	out := make([]*models.BatchReport, 0, limit)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var report models.BatchReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		out = append(out, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // Managed by pkg
}

var _ domrepo.ResultSink = (*CHSignalStore)(nil)
