package timescaledb

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/lib/pq"
)

type dbCreator struct {
	opts *LoadingOptions
}

func (d *dbCreator) Init() {}

func MustConnect(driver, connStr string) *sql.DB {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		panic(err)
	}
	return db
}

func MustExec(db *sql.DB, query string, args ...interface{}) sql.Result {
	r, err := db.Exec(query, args...)
	if err != nil {
		fmt.Printf("could not execute sql: %s\n", query)
		panic(err)
	}
	return r
}

func MustQuery(db *sql.DB, query string, args ...interface{}) *sql.Rows {
	r, err := db.Query(query, args...)
	if err != nil {
		panic(err)
	}
	return r
}

func (d *dbCreator) adminDB() *sql.DB {
	return MustConnect(d.opts.Driver(), d.opts.GetConnectString(d.opts.ConnDB))
}

func (d *dbCreator) DBExists(dbName string) bool {
	db := d.adminDB()
	defer db.Close()
	r := MustQuery(db, "SELECT 1 FROM pg_database WHERE datname = $1", dbName)
	defer r.Close()
	return r.Next()
}

func (d *dbCreator) RemoveOldDB(dbName string) error {
	db := d.adminDB()
	defer db.Close()
	MustExec(db, "DROP DATABASE IF EXISTS "+dbName)
	return nil
}

func (d *dbCreator) CreateDB(dbName string) error {
	db := d.adminDB()
	defer db.Close()
	MustExec(db, "CREATE DATABASE "+dbName)
	return nil
}

// PostCreateDB builds the wide readings table: tag columns as text, fields
// as numerics, and optionally converts it to a hypertable.
func (d *dbCreator) PostCreateDB(dbName string) error {
	db := MustConnect(d.opts.Driver(), d.opts.GetConnectString(dbName))
	defer db.Close()

	MustExec(db, fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName))
	MustExec(db, fmt.Sprintf(`CREATE TABLE %s (
		time timestamptz NOT NULL,
		patient_id text NOT NULL,
		device_id text NOT NULL,
		vital_type text NOT NULL,
		department text NOT NULL,
		data_sensitivity text NOT NULL,
		ingestion_batch text NOT NULL,
		vital_value double precision NOT NULL,
		is_alert smallint NOT NULL,
		confidence double precision NOT NULL)`, tableName))

	if d.opts.CreateIndexes {
		MustExec(db, fmt.Sprintf(`CREATE INDEX ON %s (patient_id, "time" DESC)`, tableName))
		MustExec(db, fmt.Sprintf(`CREATE INDEX ON %s (vital_type, "time" DESC)`, tableName))
		MustExec(db, fmt.Sprintf(`CREATE INDEX ON %s ("time" DESC)`, tableName))
	}

	if d.opts.UseHypertable {
		MustExec(db, "CREATE EXTENSION IF NOT EXISTS timescaledb CASCADE")
		MustExec(db, fmt.Sprintf(
			"SELECT create_hypertable('%s'::regclass, 'time'::name, chunk_time_interval => %d, create_default_indexes=>FALSE)",
			tableName, d.opts.ChunkTime.Nanoseconds()/1000))
	}
	return nil
}
