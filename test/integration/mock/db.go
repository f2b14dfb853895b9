// Package mock provides in-memory infrastructure for integration tests.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbOnce sync.Once
var db *Db

// Db wraps a shared in-memory sqlite database keyed by table name.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens the shared in-memory database and migrates the given
// models. The same instance is reused across scenarios; call ClearDB
// between them.
func NewDb(models map[string]any) *Db {
	dbOnce.Do(func() {
		db = open(models)
	})
	return db
}

func open(models map[string]any) *Db {
	sqlDB, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	conn, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database: " + err.Error())
	}

	modelList := make([]any, 0, len(models))
	for _, model := range models {
		modelList = append(modelList, model)
	}
	if err := conn.AutoMigrate(modelList...); err != nil {
		panic("failed to migrate database: " + err.Error())
	}

	return &Db{DbConn: conn, models: models}
}

// clearOrder empties child tables before their parents so foreign key
// constraints hold during cleanup. Tables not listed are cleared last.
var clearOrder = []string{
	"transaction_splits",
	"transactions",
	"fee_runs",
	"building_expenses",
	"units",
	"buildings",
}

// ClearDB removes all rows from every registered table.
func (d *Db) ClearDB() error {
	cleared := make(map[string]bool, len(d.models))
	clear := func(table string, model any) error {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		cleared[table] = true
		return nil
	}

	for _, table := range clearOrder {
		if model, ok := d.models[table]; ok {
			if err := clear(table, model); err != nil {
				return err
			}
		}
	}
	for table, model := range d.models {
		if cleared[table] {
			continue
		}
		if err := clear(table, model); err != nil {
			return err
		}
	}
	return nil
}

// GetModel returns the registered model for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
