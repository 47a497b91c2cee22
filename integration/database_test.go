//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// runHistoryScenario records two runs, then exercises every history subcommand.
func runHistoryScenario(t *testing.T) {
	t.Helper()
	root := writeFixture(t)

	_, _, err := runDocscope(t, root, "history", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, _, err = runDocscope(t, root, "analyze", "--progress", "no")
		require.NoError(t, err)
	}

	stdout, _, err := runDocscope(t, root, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Connected: true")
	assert.Contains(t, stdout, "Total Runs: 2")

	_, _, err = runDocscope(t, root, "history", "list")
	require.NoError(t, err)

	stdout, _, err = runDocscope(t, root, "history", "compare", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "base_run_id,target_run_id,module")

	export := t.TempDir() + "/export"
	_, _, err = runDocscope(t, root, "history", "export", "--output-file", export)
	require.NoError(t, err)
	assert.FileExists(t, export+".file_metrics.parquet")

	_, _, err = runDocscope(t, root, "history", "clear")
	require.NoError(t, err)
}

// setHistoryEnv points the CLI at a backend through DOCSCOPE_* variables.
func setHistoryEnv(t *testing.T, backend, connStr string) {
	t.Helper()
	_ = os.Setenv("DOCSCOPE_HISTORY_BACKEND", backend)
	_ = os.Setenv("DOCSCOPE_HISTORY_DB_CONNECT", connStr)
	t.Cleanup(func() {
		_ = os.Unsetenv("DOCSCOPE_HISTORY_BACKEND")
		_ = os.Unsetenv("DOCSCOPE_HISTORY_DB_CONNECT")
	})
}

// TestDocscopeWithMySQL tests the docscope CLI with a MySQL history backend.
func TestDocscopeWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "docscope",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	setHistoryEnv(t, "mysql", fmt.Sprintf("root:secret123@tcp(%s:%s)/docscope?parseTime=true", host, port.Port()))
	runHistoryScenario(t)
}

// TestDocscopeWithPostgres tests the docscope CLI with a PostgreSQL history backend.
func TestDocscopeWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	setHistoryEnv(t, "postgresql", fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port()))
	runHistoryScenario(t)
}
