package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nectarbooks/backend/pkg/config"
	"gorm.io/gorm"
)

func TestNewOpensAndPings(t *testing.T) {
	cfg := config.DBConfig{Path: filepath.Join(t.TempDir(), "test.db"), BusyTimeoutMS: 1000}

	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	cfg := config.DBConfig{Path: filepath.Join(t.TempDir(), "tx.db")}
	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer client.Close()

	if err := client.DB().Exec(`CREATE TABLE things (id TEXT PRIMARY KEY)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	boom := errors.New("boom")
	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO things (id) VALUES ('t1')`).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.DB().Raw(`SELECT COUNT(*) FROM things`).Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to discard the insert, found %d rows", count)
	}
}
