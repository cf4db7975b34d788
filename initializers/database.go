package initializers

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var DB *goqu.Database

func ConnectDB(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		Log.Fatal("Failed to open database", zap.Error(err))
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		Log.Fatal("Failed to reach database", zap.Error(err))
	}

	DB = goqu.New("postgres", db)
	return db
}
