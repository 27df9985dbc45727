package testutils

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dbPkg "terminal-terrace/journal-wiki/pkg/database"

	"terminal-terrace/journal-wiki/internal/model"
)

// SetupTestDB opens a private in-memory SQLite database with every table
// migrated. The connection is closed when the test ends.
//
// The pool holds a single connection, so code under test must run all
// statements of a transaction through the transaction handle.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
		ServiceName: "journal-wiki-test",
		Path:        dsn,
		LogLevel:    "silent",
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

// SetupTestRedis starts an in-process Redis server and returns a client
// connected to it. The server is shut down when the test ends.
func SetupTestRedis(t *testing.T) (*dbPkg.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	if err != nil {
		t.Fatalf("Invalid miniredis port: %v", err)
	}

	client, err := dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: "journal-wiki-test",
		Host:        server.Host(),
		Port:        port,
	})
	if err != nil {
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client, server
}
