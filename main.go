// Command schemadiff captures database schema snapshots and compares
// them across engines, printing the differences as text, YAML or JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/compare"
	"github.com/skylinedb/schemadiff/pkg/config"
	"github.com/skylinedb/schemadiff/pkg/introspect"
	_ "github.com/skylinedb/schemadiff/pkg/introspect/mssql"
	_ "github.com/skylinedb/schemadiff/pkg/introspect/mysql"
	_ "github.com/skylinedb/schemadiff/pkg/introspect/postgres"
	_ "github.com/skylinedb/schemadiff/pkg/introspect/redis"
	_ "github.com/skylinedb/schemadiff/pkg/introspect/sqlite"
	"github.com/skylinedb/schemadiff/pkg/logging"
	"github.com/skylinedb/schemadiff/pkg/report"
	"github.com/skylinedb/schemadiff/pkg/schema"
	"github.com/skylinedb/schemadiff/pkg/snapshot"
	"github.com/skylinedb/schemadiff/pkg/versioning"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "compare":
		runCompare(os.Args[2:])
	case "capture":
		runCapture(os.Args[2:])
	case "record":
		runRecord(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "dialects":
		runDialects()
	case "version":
		fmt.Println(Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println("Usage: schemadiff <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  compare    compare the configured source and target schemas and print a report")
	fmt.Println("  capture    capture a schema snapshot into a file")
	fmt.Println("  record     commit changed object definitions to the local version store")
	fmt.Println("  history    show recorded versions of a schema object")
	fmt.Println("  dialects   list the available database dialects")
	fmt.Println("  version    print the version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  schemadiff capture -endpoint source -out prod.yaml")
	fmt.Println("  schemadiff compare -source prod.yaml -target staging.yaml -format json")
	fmt.Println("  schemadiff record -endpoint source -message \"nightly capture\"")
	fmt.Println("  schemadiff history -object public.active_users")
	fmt.Println()
	fmt.Println("Connection details come from config.yaml; see -config on each command.")
}

func runCompare(args []string) {
	flags := flag.NewFlagSet("compare", flag.ExitOnError)
	configPath := flags.String("config", "", "config file (default config.yaml when present)")
	source := flags.String("source", "", "source snapshot file, overriding the configured source")
	target := flags.String("target", "", "target snapshot file, overriding the configured target")
	format := flags.String("format", "", "report format: text, yaml or json")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	if *source != "" {
		cfg.Source = config.EndpointConfig{SnapshotPath: *source}
	}
	if *target != "" {
		cfg.Target = config.EndpointConfig{SnapshotPath: *target}
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}

	outFormat, err := report.ParseFormat(cfg.OutputFormat)
	if err != nil {
		log.Fatalf("Invalid output format: %v", err)
	}

	logger := buildLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()
	sourceSnap := loadEndpoint(ctx, "source", &cfg.Source, cfg, logger)
	targetSnap := loadEndpoint(ctx, "target", &cfg.Target, cfg, logger)

	comparator := compare.NewSchemaComparatorWithConfig(cfg.Compare.CompareConfig())
	diff := comparator.CompareSnapshots(sourceSnap, targetSnap)

	out, err := report.Render(diff, outFormat, report.Options{
		SourceDialect: sourceSnap.Dialect,
		TargetDialect: targetSnap.Dialect,
	})
	if err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
	fmt.Print(out)
}

func runCapture(args []string) {
	flags := flag.NewFlagSet("capture", flag.ExitOnError)
	configPath := flags.String("config", "", "config file (default config.yaml when present)")
	endpointName := flags.String("endpoint", "source", "configured endpoint to capture: source or target")
	out := flags.String("out", "", "file to write the snapshot to (.yaml or .json)")
	flags.Parse(args)

	if *out == "" {
		log.Fatalf("capture requires -out")
	}

	cfg := loadConfig(*configPath)
	endpoint := pickEndpoint(cfg, *endpointName)
	if endpoint.IsSnapshot() {
		log.Fatalf("Endpoint %q is already a snapshot file, nothing to capture", *endpointName)
	}

	logger := buildLogger(cfg)
	defer logger.Sync()

	snap, err := captureEndpoint(context.Background(), endpoint, cfg.Capture.Concurrency, logger)
	if err != nil {
		log.Fatalf("Failed to capture schema: %v", err)
	}
	if err := snapshot.Save(snap, *out); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	fmt.Printf("Captured %d schema objects from %s into %s\n", snap.ObjectCount(), snap.Dialect, *out)
}

func runRecord(args []string) {
	flags := flag.NewFlagSet("record", flag.ExitOnError)
	configPath := flags.String("config", "", "config file (default config.yaml when present)")
	endpointName := flags.String("endpoint", "source", "configured endpoint to record: source or target")
	message := flags.String("message", "schema capture", "commit message for new versions")
	author := flags.String("author", "", "author recorded on new versions")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	endpoint := pickEndpoint(cfg, *endpointName)

	logger := buildLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()
	snap := loadEndpoint(ctx, *endpointName, endpoint, cfg, logger)

	db, err := versioning.OpenDatabase(cfg.Versions.Path, logger)
	if err != nil {
		log.Fatalf("Failed to open version store: %v", err)
	}
	defer db.Close()
	repo := versioning.NewRepository(db, logger)

	connID := snapshotIdentity(snap)
	committed, unchanged := 0, 0
	for _, obj := range definitionObjects(snap) {
		objectID := versioning.MakeObjectID(obj.schema, obj.name)
		changed, err := repo.HasChanges(ctx, connID, objectID, obj.definition)
		if err != nil {
			log.Fatalf("Failed to check %s for changes: %v", objectID, err)
		}
		if !changed {
			unchanged++
			continue
		}
		entry, err := repo.Commit(ctx, versioning.CommitRequest{
			ConnectionID: connID,
			ObjectType:   obj.objectType,
			ObjectSchema: obj.schema,
			ObjectName:   obj.name,
			Content:      obj.definition,
			Message:      *message,
			Author:       *author,
		})
		if err != nil {
			log.Fatalf("Failed to commit %s: %v", objectID, err)
		}
		fmt.Printf("  %s  %-17s %s\n", entry.ShortID(), entry.ObjectType, entry.ObjectID)
		committed++
	}
	fmt.Printf("Recorded %d changed definitions (%d unchanged) in %s\n", committed, unchanged, cfg.Versions.Path)
}

func runHistory(args []string) {
	flags := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := flags.String("config", "", "config file (default config.yaml when present)")
	endpointName := flags.String("endpoint", "source", "configured endpoint the history belongs to")
	object := flags.String("object", "", "object to show, as schema.name; empty lists every versioned object")
	limit := flags.Int("limit", 20, "maximum versions to show")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	endpoint := pickEndpoint(cfg, *endpointName)

	logger := buildLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()
	db, err := versioning.OpenDatabase(cfg.Versions.Path, logger)
	if err != nil {
		log.Fatalf("Failed to open version store: %v", err)
	}
	defer db.Close()
	repo := versioning.NewRepository(db, logger)

	connID := endpointIdentity(endpoint)
	if *object == "" {
		listVersionedObjects(ctx, repo, connID)
		return
	}

	entries, err := repo.Versions(ctx, connID, *object)
	if err != nil {
		log.Fatalf("Failed to load history for %s: %v", *object, err)
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}
	if len(entries) == 0 {
		fmt.Printf("No versions recorded for %s\n", *object)
		return
	}
	for _, entry := range entries {
		fmt.Printf("%s  %s  %s\n", entry.ShortID(), entry.CreatedAt.Format(time.RFC3339), entry.Message)
	}
}

func listVersionedObjects(ctx context.Context, repo versioning.Repository, connID uuid.UUID) {
	objects, err := repo.ListVersionedObjects(ctx, connID)
	if err != nil {
		log.Fatalf("Failed to list versioned objects: %v", err)
	}
	if len(objects) == 0 {
		fmt.Println("No versions recorded yet; run 'schemadiff record' first.")
		return
	}
	for _, obj := range objects {
		fmt.Printf("%-40s %-17s %3d versions, last %s\n",
			obj.ObjectID, obj.ObjectType, obj.VersionCount, obj.LatestVersionAt.Format(time.RFC3339))
	}
}

func runDialects() {
	fmt.Println("Available dialects:")
	for _, info := range introspect.RegisteredDialects() {
		fmt.Printf("  %-12s %s - %s\n", info.Dialect, info.DisplayName, info.Description)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path, Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func buildLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func pickEndpoint(cfg *config.Config, name string) *config.EndpointConfig {
	switch name {
	case "source":
		return &cfg.Source
	case "target":
		return &cfg.Target
	}
	log.Fatalf("Unknown endpoint %q: want source or target", name)
	return nil
}

// loadEndpoint produces the snapshot for one side: read a snapshot file,
// or connect to the database and capture one.
func loadEndpoint(ctx context.Context, side string, endpoint *config.EndpointConfig, cfg *config.Config, logger *zap.Logger) *schema.Snapshot {
	if err := endpoint.Validate(); err != nil {
		log.Fatalf("Invalid %s endpoint: %v", side, err)
	}
	if endpoint.IsSnapshot() {
		snap, err := snapshot.Load(endpoint.SnapshotPath)
		if err != nil {
			log.Fatalf("Failed to load %s snapshot: %v", side, err)
		}
		return snap
	}
	snap, err := captureEndpoint(ctx, endpoint, cfg.Capture.Concurrency, logger)
	if err != nil {
		log.Fatalf("Failed to capture %s schema: %v", side, err)
	}
	return snap
}

func captureEndpoint(ctx context.Context, endpoint *config.EndpointConfig, concurrency int, logger *zap.Logger) (*schema.Snapshot, error) {
	si, err := introspect.New(ctx, endpoint.Dialect, endpoint.ConfigMap(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint.Dialect, err)
	}
	defer si.Close()

	return snapshot.Capture(ctx, si, snapshot.CaptureOptions{
		Database:    endpoint.Database,
		SchemaName:  endpoint.SchemaName,
		Concurrency: concurrency,
	}, logger)
}

// definitionObject is one versionable definition pulled from a snapshot.
type definitionObject struct {
	objectType versioning.ObjectType
	schema     string
	name       string
	definition string
}

// definitionObjects lists the snapshot's definition-carrying objects,
// the ones worth versioning as source text.
func definitionObjects(snap *schema.Snapshot) []definitionObject {
	var objects []definitionObject
	for _, v := range snap.Views {
		t := versioning.ObjectTypeView
		if v.Materialized {
			t = versioning.ObjectTypeMaterializedView
		}
		objects = append(objects, definitionObject{t, v.Schema, v.Name, v.Definition})
	}
	for _, f := range snap.Functions {
		objects = append(objects, definitionObject{versioning.ObjectTypeFunction, f.Schema, f.Name, f.Definition})
	}
	for _, p := range snap.Procedures {
		objects = append(objects, definitionObject{versioning.ObjectTypeProcedure, p.Schema, p.Name, p.Definition})
	}
	for _, tr := range snap.Triggers {
		objects = append(objects, definitionObject{versioning.ObjectTypeTrigger, tr.Schema, tr.Name, tr.Definition})
	}
	return objects
}

// connectionIdentity derives the version store connection ID from a
// database's logical coordinates. History follows the logical database,
// not the transport, so a live capture and a snapshot file of the same
// database share one history.
func connectionIdentity(dialect, database, schemaName string) uuid.UUID {
	key := strings.Join([]string{dialect, database, schemaName}, "/")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("schemadiff://"+key))
}

func snapshotIdentity(snap *schema.Snapshot) uuid.UUID {
	return connectionIdentity(snap.Dialect, snap.Database, snap.SchemaName)
}

// endpointIdentity resolves the connection ID without capturing:
// snapshot files carry their coordinates, live endpoints state them in
// config.
func endpointIdentity(endpoint *config.EndpointConfig) uuid.UUID {
	if endpoint.IsSnapshot() {
		snap, err := snapshot.Load(endpoint.SnapshotPath)
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}
		return snapshotIdentity(snap)
	}
	return connectionIdentity(endpoint.Dialect, endpoint.Database, endpoint.SchemaName)
}
