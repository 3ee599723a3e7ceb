package report

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// MeasurePostgresStorage returns the on-disk size of a PostgreSQL database.
func MeasurePostgresStorage(driver, connStr, dbName string) (int64, error) {
	db, err := sqlx.Connect(driver, connStr)
	if err != nil {
		return 0, errors.Wrap(err, "cannot connect to postgres")
	}
	defer db.Close()

	var size int64
	err = db.Get(&size, "SELECT pg_database_size($1)", dbName)
	return size, errors.Wrapf(err, "cannot size database %s", dbName)
}

// MeasureMongoStorage returns the storage plus index size of a MongoDB
// database, from dbStats.
func MeasureMongoStorage(url, dbName string, timeout time.Duration) (int64, error) {
	session, err := mgo.DialWithTimeout(url, timeout)
	if err != nil {
		return 0, errors.Wrap(err, "cannot dial mongo")
	}
	defer session.Close()

	var stats struct {
		StorageSize int64 `bson:"storageSize"`
		IndexSize   int64 `bson:"indexSize"`
	}
	err = session.DB(dbName).Run(bson.D{{Name: "dbStats", Value: 1}, {Name: "scale", Value: 1}}, &stats)
	if err != nil {
		return 0, errors.Wrapf(err, "dbStats failed for %s", dbName)
	}
	return stats.StorageSize + stats.IndexSize, nil
}

// MeasureDirStorage sums the file sizes under a directory. InfluxDB exposes
// no size API, so the engine data directory is measured directly.
func MeasureDirStorage(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, errors.Wrapf(err, "cannot walk %s", root)
}

// WriteStorageResult drops a storage.json into the collector directory of
// one database.
func WriteStorageResult(outputsRoot, db string, sizeBytes int64) (string, error) {
	dir := filepath.Join(outputsRoot, db)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "cannot create %s", dir)
	}
	path := filepath.Join(dir, "storage.json")
	raw, err := json.MarshalIndent(storageFile{Database: db, SizeBytes: sizeBytes}, "", " ")
	if err != nil {
		return "", err
	}
	return path, errors.Wrapf(ioutil.WriteFile(path, raw, 0644), "cannot write %s", path)
}
