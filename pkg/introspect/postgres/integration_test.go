//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/skylinedb/schemadiff/pkg/schema"
	"github.com/skylinedb/schemadiff/pkg/snapshot"
	"github.com/skylinedb/schemadiff/pkg/testhelpers"
)

func TestIntrospectLivePostgres(t *testing.T) {
	pg := testhelpers.GetPostgresDB(t)
	ctx := context.Background()

	ddl := []string{
		`CREATE SCHEMA IF NOT EXISTS inspect_live`,
		`CREATE TABLE IF NOT EXISTS inspect_live.accounts (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS inspect_live.orders (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			account_id BIGINT NOT NULL REFERENCES inspect_live.accounts(id) ON DELETE CASCADE,
			total NUMERIC(10,2) NOT NULL DEFAULT 0,
			CONSTRAINT orders_total_positive CHECK (total >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_account ON inspect_live.orders(account_id)`,
		`CREATE OR REPLACE VIEW inspect_live.account_emails AS SELECT id, email FROM inspect_live.accounts`,
	}
	for _, stmt := range ddl {
		if _, err := pg.Pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("failed to run DDL: %v", err)
		}
	}

	cfg, err := FromMap(pg.Config)
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	si, err := NewIntrospector(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("failed to connect introspector: %v", err)
	}
	defer si.Close()

	tables, err := si.ListTables(ctx, "inspect_live")
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}
	if !containsTable(tables, "accounts") || !containsTable(tables, "orders") {
		t.Fatalf("expected accounts and orders in listing, got %v", tableNames(tables))
	}

	columns, err := si.GetColumns(ctx, "inspect_live", "accounts")
	if err != nil {
		t.Fatalf("failed to get columns: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns on accounts, got %d", len(columns))
	}
	for _, col := range columns {
		if col.Name == "email" && col.Nullable {
			t.Errorf("email should be NOT NULL")
		}
	}

	pk, err := si.GetPrimaryKey(ctx, "inspect_live", "orders")
	if err != nil {
		t.Fatalf("failed to get primary key: %v", err)
	}
	if pk == nil || len(pk.Columns) != 1 || pk.Columns[0] != "id" {
		t.Errorf("expected primary key on id, got %+v", pk)
	}

	fks, err := si.GetForeignKeys(ctx, "inspect_live", "orders")
	if err != nil {
		t.Fatalf("failed to get foreign keys: %v", err)
	}
	if len(fks) != 1 || fks[0].ReferencedTable != "accounts" {
		t.Errorf("expected one foreign key to accounts, got %+v", fks)
	}

	views, err := si.ListViews(ctx, "inspect_live")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	if len(views) != 1 || views[0].Name != "account_emails" {
		t.Errorf("expected view account_emails, got %+v", views)
	}

	// Full capture pass over the same schema.
	runCapturePass(ctx, t, si)
}

func runCapturePass(ctx context.Context, t *testing.T, si *Introspector) {
	t.Helper()

	snap, err := snapshot.Capture(ctx, si, snapshot.CaptureOptions{
		Database:   testhelpers.TestDatabase,
		SchemaName: "inspect_live",
	}, nil)
	if err != nil {
		t.Fatalf("failed to capture snapshot: %v", err)
	}
	details, ok := snap.DetailsFor("inspect_live.orders")
	if !ok {
		t.Fatalf("snapshot missing details for inspect_live.orders")
	}
	if details.PrimaryKey == nil {
		t.Errorf("captured orders details missing primary key")
	}
	if len(details.ForeignKeys) != 1 {
		t.Errorf("captured orders details missing foreign key")
	}
}

func containsTable(tables []schema.TableInfo, name string) bool {
	for _, tbl := range tables {
		if tbl.Name == name {
			return true
		}
	}
	return false
}

func tableNames(tables []schema.TableInfo) []string {
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	return names
}
