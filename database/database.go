package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the sqlite database at url and applies pending
// migrations.
func Open(url string) (db *sql.DB, err error) {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	db, err = sql.Open("sqlite3", url+sep+"_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}
