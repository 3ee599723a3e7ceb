package influx

import (
	"context"

	vbinflux "github.com/vitalbench/vitalbench/pkg/influx"
)

type dbCreator struct {
	client *vbinflux.Client
}

func (d *dbCreator) Init() {
	if err := d.client.Ping(context.Background()); err != nil {
		panic(err)
	}
}

func (d *dbCreator) DBExists(dbName string) bool {
	return d.client.BucketExists(context.Background(), dbName)
}

func (d *dbCreator) CreateDB(dbName string) error {
	return d.client.CreateBucket(context.Background(), dbName)
}

func (d *dbCreator) RemoveOldDB(dbName string) error {
	return d.client.DeleteBucket(context.Background(), dbName)
}
