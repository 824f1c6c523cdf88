// Package testhelpers provides shared database containers for
// integration tests. Each dialect gets one container per test run,
// started lazily and reused by every test that asks for it.
package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for database/sql
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/microsoft/go-mssqldb" // SQL Server driver for database/sql
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// TestPassword is the password every test container is started with,
	// except SQL Server which enforces complexity rules.
	TestPassword = "test_password"
	// TestMSSQLPassword satisfies the SQL Server complexity policy.
	TestMSSQLPassword = "Te5t_Passw0rd!"
	// TestDatabase is the database created in the SQL test containers.
	TestDatabase = "schemadiff_test"
)

// PostgresDB holds a shared PostgreSQL test container.
type PostgresDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	// Config is ready to hand to the postgresql introspector factory.
	Config map[string]any
}

var (
	sharedPostgres     *PostgresDB
	sharedPostgresOnce sync.Once
	sharedPostgresErr  error
)

// GetPostgresDB returns a shared PostgreSQL container for integration
// tests. The container is created once and reused across all tests in
// the run.
func GetPostgresDB(t *testing.T) *PostgresDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedPostgresOnce.Do(func() {
		sharedPostgres, sharedPostgresErr = setupPostgres()
	})

	if sharedPostgresErr != nil {
		t.Fatalf("Failed to setup PostgreSQL container: %v", sharedPostgresErr)
	}

	return sharedPostgres
}

func setupPostgres() (*PostgresDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       TestDatabase,
			"POSTGRES_USER":     "schemadiff",
			"POSTGRES_PASSWORD": TestPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, host, err := startContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	mapped, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	port := mapped.Int()

	connStr := fmt.Sprintf("postgres://schemadiff:%s@%s:%d/%s?sslmode=disable",
		TestPassword, host, port, TestDatabase)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	return &PostgresDB{
		Container: container,
		Pool:      pool,
		Config: map[string]any{
			"host":     host,
			"port":     port,
			"user":     "schemadiff",
			"password": TestPassword,
			"database": TestDatabase,
			"ssl_mode": "disable",
		},
	}, nil
}

// MySQLDB holds a shared MySQL test container.
type MySQLDB struct {
	Container testcontainers.Container
	DB        *sql.DB
	// Config is ready to hand to the mysql introspector factory.
	Config map[string]any
}

var (
	sharedMySQL     *MySQLDB
	sharedMySQLOnce sync.Once
	sharedMySQLErr  error
)

// GetMySQLDB returns a shared MySQL container for integration tests.
func GetMySQLDB(t *testing.T) *MySQLDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedMySQLOnce.Do(func() {
		sharedMySQL, sharedMySQLErr = setupMySQL()
	})

	if sharedMySQLErr != nil {
		t.Fatalf("Failed to setup MySQL container: %v", sharedMySQLErr)
	}

	return sharedMySQL
}

func setupMySQL() (*MySQLDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      TestDatabase,
			"MYSQL_ROOT_PASSWORD": TestPassword,
		},
		WaitingFor: wait.ForLog("ready for connections").
			WithOccurrence(2).
			WithStartupTimeout(120 * time.Second),
	}

	container, host, err := startContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	mapped, err := container.MappedPort(ctx, "3306")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	port := mapped.Int()

	dsn := fmt.Sprintf("root:%s@tcp(%s:%d)/%s?parseTime=true", TestPassword, host, port, TestDatabase)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	if err := pingWithRetry(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to reach mysql: %w", err)
	}

	return &MySQLDB{
		Container: container,
		DB:        db,
		Config: map[string]any{
			"host":     host,
			"port":     port,
			"user":     "root",
			"password": TestPassword,
			"database": TestDatabase,
		},
	}, nil
}

// MSSQLDB holds a shared SQL Server test container.
type MSSQLDB struct {
	Container testcontainers.Container
	DB        *sql.DB
	// Config is ready to hand to the mssql introspector factory.
	Config map[string]any
}

var (
	sharedMSSQL     *MSSQLDB
	sharedMSSQLOnce sync.Once
	sharedMSSQLErr  error
)

// GetMSSQLDB returns a shared SQL Server container for integration
// tests. The introspector config points at master; tests create what
// they need there.
func GetMSSQLDB(t *testing.T) *MSSQLDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedMSSQLOnce.Do(func() {
		sharedMSSQL, sharedMSSQLErr = setupMSSQL()
	})

	if sharedMSSQLErr != nil {
		t.Fatalf("Failed to setup SQL Server container: %v", sharedMSSQLErr)
	}

	return sharedMSSQL
}

func setupMSSQL() (*MSSQLDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mcr.microsoft.com/mssql/server:2022-latest",
		ExposedPorts: []string{"1433/tcp"},
		Env: map[string]string{
			"ACCEPT_EULA":       "Y",
			"MSSQL_SA_PASSWORD": TestMSSQLPassword,
		},
		WaitingFor: wait.ForLog("SQL Server is now ready for client connections").
			WithStartupTimeout(120 * time.Second),
	}

	container, host, err := startContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	mapped, err := container.MappedPort(ctx, "1433")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	port := mapped.Int()

	dsn := fmt.Sprintf("sqlserver://sa:%s@%s:%d?database=master&encrypt=disable", TestMSSQLPassword, host, port)
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlserver connection: %w", err)
	}
	if err := pingWithRetry(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to reach sqlserver: %w", err)
	}

	return &MSSQLDB{
		Container: container,
		DB:        db,
		Config: map[string]any{
			"host":     host,
			"port":     port,
			"user":     "sa",
			"password": TestMSSQLPassword,
			"database": "master",
			"encrypt":  false,
		},
	}, nil
}

// RedisDB holds a shared Redis test container.
type RedisDB struct {
	Container testcontainers.Container
	Client    *redis.Client
	// Config is ready to hand to the redis introspector factory.
	Config map[string]any
}

var (
	sharedRedis     *RedisDB
	sharedRedisOnce sync.Once
	sharedRedisErr  error
)

// GetRedisDB returns a shared Redis container for integration tests.
func GetRedisDB(t *testing.T) *RedisDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedRedisOnce.Do(func() {
		sharedRedis, sharedRedisErr = setupRedis()
	})

	if sharedRedisErr != nil {
		t.Fatalf("Failed to setup Redis container: %v", sharedRedisErr)
	}

	return sharedRedis
}

func setupRedis() (*RedisDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(60 * time.Second),
	}

	container, host, err := startContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	mapped, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	port := mapped.Int()

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port)})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &RedisDB{
		Container: container,
		Client:    client,
		Config: map[string]any{
			"host": host,
			"port": port,
			"db":   0,
		},
	}, nil
}

func startContainer(ctx context.Context, req testcontainers.ContainerRequest) (testcontainers.Container, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get container host: %w", err)
	}

	return container, host, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB) error {
	var err error
	for i := 0; i < 20; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return err
}
