/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package iteration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/recommend"
)

const TIterations = "iterations"

var (
	createTableCmd = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		iteration_id TEXT PRIMARY KEY,
		model_name TEXT NOT NULL,
		model_path TEXT,
		created_at TEXT NOT NULL,
		data TEXT NOT NULL
	)`, TIterations)
	createModelIndexCmd   = fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_model_name ON %s(model_name)`, TIterations)
	createCreatedIndexCmd = fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_created_at ON %s(created_at)`, TIterations)

	insertIterationCmd = fmt.Sprintf(
		`INSERT INTO %s (iteration_id, model_name, model_path, created_at, data) VALUES (?, ?, ?, ?, ?)`, TIterations)
	updateIterationCmd = fmt.Sprintf(`UPDATE %s SET data = ? WHERE iteration_id = ?`, TIterations)
)

// Interface is the iteration store contract.
type Interface interface {
	Create(ctx context.Context, modelName, modelPath string, opts CreateOptions) (*Record, error)
	Update(ctx context.Context, record *Record) error
	Get(ctx context.Context, iterationID string) (*Record, error)
	ListForModel(ctx context.Context, modelName string, limit int) ([]*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
	RecordOutcome(ctx context.Context, iterationID string, outcome Outcome) (*Record, error)
	Statistics(ctx context.Context, modelName string) (*Statistics, error)
	Close() error
}

// Client is a SQLite-backed iteration store. Writes to the same record
// are serialized through a per-id mutex.
type Client struct {
	db *sqlx.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewClient opens (and creates if needed) the store at dbPath.
func NewClient(dbPath string) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %v", err)
	}
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect db %s, err: %v", dbPath, err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	for _, cmd := range []string{createTableCmd, createModelIndexCmd, createCreatedIndexCmd} {
		if _, err := db.Exec(cmd); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to init schema: %v", err)
		}
	}
	return &Client{db: db, locks: map[string]*sync.Mutex{}}, nil
}

func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Client) lockFor(iterationID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[iterationID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[iterationID] = l
	}
	return l
}

func (c *Client) Create(ctx context.Context, modelName, modelPath string, opts CreateOptions) (*Record, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("iteration store is not initialized")
	}
	record := &Record{
		IterationID:            uuid.NewString()[:8],
		ModelName:              modelName,
		ModelPath:              modelPath,
		CreatedAt:              time.Now().UTC(),
		OriginalDimensions:     opts.OriginalDimensions,
		ScaleFactor:            opts.ScaleFactor,
		ScaledDimensions:       opts.ScaledDimensions,
		Parameters:             opts.Parameters,
		PresetName:             opts.PresetName,
		Status:                 StatusPending,
		DefectsDetected:        []string{},
		ImprovementSuggestions: []string{},
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, commonerrors.NewInternalError(fmt.Sprintf("failed to encode iteration: %v", err))
	}
	if _, err := c.db.ExecContext(ctx, insertIterationCmd,
		record.IterationID, modelName, modelPath,
		record.CreatedAt.Format(time.RFC3339Nano), string(data)); err != nil {
		klog.ErrorS(err, "failed to insert iteration", "iterationId", record.IterationID)
		return nil, commonerrors.NewInternalError(err.Error())
	}
	return record, nil
}

func (c *Client) Update(ctx context.Context, record *Record) error {
	if c == nil || c.db == nil {
		return commonerrors.NewInternalError("iteration store is not initialized")
	}
	if record == nil {
		return nil
	}
	lock := c.lockFor(record.IterationID)
	lock.Lock()
	defer lock.Unlock()
	return c.update(ctx, record)
}

func (c *Client) update(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return commonerrors.NewInternalError(fmt.Sprintf("failed to encode iteration: %v", err))
	}
	result, err := c.db.ExecContext(ctx, updateIterationCmd, string(data), record.IterationID)
	if err != nil {
		klog.ErrorS(err, "failed to update iteration", "iterationId", record.IterationID)
		return commonerrors.NewInternalError(err.Error())
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return commonerrors.NewNotFound("iteration", record.IterationID)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, iterationID string) (*Record, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("iteration store is not initialized")
	}
	query := sqrl.Select("data").From(TIterations).
		Where(sqrl.Eq{"iteration_id": iterationID}).Limit(1)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, commonerrors.NewInternalError(err.Error())
	}
	var data string
	if err := c.db.GetContext(ctx, &data, sqlStr, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, commonerrors.NewNotFound("iteration", iterationID)
		}
		klog.ErrorS(err, "failed to get iteration", "iterationId", iterationID)
		return nil, commonerrors.NewInternalError(err.Error())
	}
	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, commonerrors.NewInternalError(fmt.Sprintf("failed to decode iteration: %v", err))
	}
	return &record, nil
}

func (c *Client) list(ctx context.Context, query sqrl.SelectBuilder) ([]*Record, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, commonerrors.NewInternalError(err.Error())
	}
	var rows []string
	if err := c.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		klog.ErrorS(err, "failed to list iterations")
		return nil, commonerrors.NewInternalError(err.Error())
	}
	records := make([]*Record, 0, len(rows))
	for _, data := range rows {
		var record Record
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			klog.ErrorS(err, "skipping undecodable iteration row")
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}

// ListForModel returns a model's iterations, newest first.
func (c *Client) ListForModel(ctx context.Context, modelName string, limit int) ([]*Record, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("iteration store is not initialized")
	}
	if limit <= 0 {
		limit = 10
	}
	return c.list(ctx, sqrl.Select("data").From(TIterations).
		Where(sqrl.Eq{"model_name": modelName}).
		OrderBy("created_at DESC").Limit(uint64(limit)))
}

// ListRecent returns the most recent iterations across all models.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("iteration store is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	return c.list(ctx, sqrl.Select("data").From(TIterations).
		OrderBy("created_at DESC").Limit(uint64(limit)))
}

// RecordOutcome finalizes an iteration and derives improvement
// suggestions from the detected defects.
func (c *Client) RecordOutcome(ctx context.Context, iterationID string, outcome Outcome) (*Record, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("iteration store is not initialized")
	}
	lock := c.lockFor(iterationID)
	lock.Lock()
	defer lock.Unlock()

	record, err := c.Get(ctx, iterationID)
	if err != nil {
		return nil, err
	}
	// outcomes are immutable once recorded
	if record.CompletedAt != nil {
		return nil, commonerrors.NewIterationFinalized(fmt.Sprintf(
			"iteration %s already has a recorded outcome", iterationID))
	}

	now := time.Now().UTC()
	record.Status = outcome.Status
	record.CompletedAt = &now
	record.QualityScore = outcome.QualityScore
	record.DefectsDetected = outcome.Defects
	if record.DefectsDetected == nil {
		record.DefectsDetected = []string{}
	}
	record.DefectCount = len(record.DefectsDetected)
	record.Notes = outcome.Notes
	record.PrintTimeMinutes = outcome.PrintTimeMinutes
	record.ImprovementSuggestions = recommend.Suggestions(record.DefectsDetected)
	if record.ImprovementSuggestions == nil {
		record.ImprovementSuggestions = []string{}
	}

	if err := c.update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
