//go:build integration

package mssql

import (
	"context"
	"testing"

	"github.com/skylinedb/schemadiff/pkg/testhelpers"
)

func TestIntrospectLiveMSSQL(t *testing.T) {
	ms := testhelpers.GetMSSQLDB(t)
	ctx := context.Background()

	ddl := []string{
		`IF OBJECT_ID('dbo.widgets', 'U') IS NULL
		CREATE TABLE dbo.widgets (
			id INT IDENTITY(1,1) PRIMARY KEY,
			name NVARCHAR(100) NOT NULL,
			price DECIMAL(10,2) NOT NULL CONSTRAINT df_widgets_price DEFAULT 0
		)`,
		`IF OBJECT_ID('dbo.widget_names', 'V') IS NULL
		EXEC('CREATE VIEW dbo.widget_names AS SELECT id, name FROM dbo.widgets')`,
	}
	for _, stmt := range ddl {
		if _, err := ms.DB.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to run DDL: %v", err)
		}
	}

	cfg, err := FromMap(ms.Config)
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	si, err := NewIntrospector(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("failed to connect introspector: %v", err)
	}
	defer si.Close()

	tables, err := si.ListTables(ctx, "dbo")
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}
	found := false
	for _, tbl := range tables {
		if tbl.Name == "widgets" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected widgets in table listing")
	}

	columns, err := si.GetColumns(ctx, "dbo", "widgets")
	if err != nil {
		t.Fatalf("failed to get columns: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns on widgets, got %d", len(columns))
	}

	pk, err := si.GetPrimaryKey(ctx, "dbo", "widgets")
	if err != nil {
		t.Fatalf("failed to get primary key: %v", err)
	}
	if pk == nil || len(pk.Columns) != 1 || pk.Columns[0] != "id" {
		t.Errorf("expected primary key on id, got %+v", pk)
	}

	views, err := si.ListViews(ctx, "dbo")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	viewFound := false
	for _, v := range views {
		if v.Name == "widget_names" {
			viewFound = true
		}
	}
	if !viewFound {
		t.Errorf("expected view widget_names, got %+v", views)
	}
}
