package mongo

import (
	"log"

	"github.com/globalsign/mgo"

	"github.com/vitalbench/vitalbench/internal/utils"
)

var fatal = log.Fatalf

type dbCreator struct {
	opts    *LoadingOptions
	session *mgo.Session
}

func (d *dbCreator) Init() {
	var err error
	d.session, err = mgo.DialWithTimeout(d.opts.URL, d.opts.Timeout)
	if err != nil {
		fatal("cannot dial mongo: %v", err)
	}
	d.session.SetMode(mgo.Monotonic, true)
}

func (d *dbCreator) DBExists(dbName string) bool {
	names, err := d.session.DatabaseNames()
	if err != nil {
		fatal("cannot list databases: %v", err)
	}
	return utils.IsIn(dbName, names)
}

func (d *dbCreator) RemoveOldDB(dbName string) error {
	return d.session.DB(dbName).DropDatabase()
}

func (d *dbCreator) CreateDB(dbName string) error {
	// Databases materialize on first insert; only the indexes need setup.
	collection := d.session.DB(dbName).C(collectionName)
	if err := collection.EnsureIndex(mgo.Index{Key: []string{"patient_id", "timestamp"}, Background: true}); err != nil {
		return err
	}
	return collection.EnsureIndex(mgo.Index{Key: []string{"vital_type", "timestamp"}, Background: true})
}

func (d *dbCreator) Close() {
	d.session.Close()
}
