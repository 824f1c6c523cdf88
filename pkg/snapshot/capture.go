// Package snapshot captures a live database's schema into an immutable
// schema.Snapshot and persists snapshots to disk, so comparisons can run
// against historical or offline copies instead of a live connection.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skylinedb/schemadiff/pkg/introspect"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// DefaultConcurrency bounds how many tables are detailed in parallel when
// CaptureOptions does not say otherwise.
const DefaultConcurrency = 4

// CaptureOptions controls what Capture reads and how hard it drives the
// database while doing so.
type CaptureOptions struct {
	// Database labels the snapshot; the introspector is already connected
	// to it, so this is metadata only.
	Database string
	// SchemaName selects the namespace to capture. Dialects without
	// namespaces ignore it.
	SchemaName string
	// Concurrency is the number of tables detailed at once. Zero or
	// negative means DefaultConcurrency.
	Concurrency int
}

// Capture reads the full schema through the introspector and returns it as
// a snapshot. Object listings for each kind run first; per-table details
// (columns, keys, indexes, constraints, triggers) then fan out across a
// bounded worker group, since they dominate the query count on wide
// schemas.
func Capture(ctx context.Context, si introspect.SchemaIntrospector, opts CaptureOptions, logger *zap.Logger) (*schema.Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	start := time.Now()
	snap := schema.NewSnapshot(si.Dialect(), opts.Database)
	snap.SchemaName = opts.SchemaName

	tables, err := si.ListTables(ctx, opts.SchemaName)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	snap.Tables = tables

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	// Each listing goroutine writes a distinct snapshot field; g.Wait
	// orders those writes before any read below.
	g.Go(func() error {
		var err error
		if snap.Views, err = si.ListViews(gctx, opts.SchemaName); err != nil {
			return fmt.Errorf("list views: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Functions, err = si.ListFunctions(gctx, opts.SchemaName); err != nil {
			return fmt.Errorf("list functions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Procedures, err = si.ListProcedures(gctx, opts.SchemaName); err != nil {
			return fmt.Errorf("list procedures: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Triggers, err = si.ListTriggers(gctx, opts.SchemaName, ""); err != nil {
			return fmt.Errorf("list triggers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Sequences, err = si.ListSequences(gctx, opts.SchemaName); err != nil {
			return fmt.Errorf("list sequences: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Types, err = si.ListTypes(gctx, opts.SchemaName); err != nil {
			return fmt.Errorf("list types: %w", err)
		}
		return nil
	})

	var mu sync.Mutex
	for _, table := range tables {
		g.Go(func() error {
			details, err := introspect.CollectTableDetails(gctx, si, table)
			if err != nil {
				return fmt.Errorf("collect details for %s: %w", table.QualifiedName(), err)
			}
			mu.Lock()
			snap.Details[table.QualifiedName()] = *details
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("Captured schema snapshot",
		zap.String("dialect", snap.Dialect),
		zap.String("database", snap.Database),
		zap.String("schema", snap.SchemaName),
		zap.Int("tables", len(snap.Tables)),
		zap.Int("objects", snap.ObjectCount()),
		zap.Duration("elapsed", time.Since(start)))
	return snap, nil
}
