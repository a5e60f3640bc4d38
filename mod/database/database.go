package database

/*
	SiteServ Key-Value Configuration Store

	A simple abstraction over the supported key-value database
	backends. Values are stored as JSON encoded bytes under a
	table (bucket) and key.
*/

import (
	"imuslab.com/siteserv/mod/database/dbbolt"
	"imuslab.com/siteserv/mod/database/dbinc"
	"imuslab.com/siteserv/mod/database/dbleveldb"
)

type Database struct {
	BackendType dbinc.BackendType
	backend     dbinc.Backend
}

// NewDatabase creates a database at the given path with the requested
// backend. Use dbinc.BackEndAuto if there is no preference.
func NewDatabase(dbfile string, backendType dbinc.BackendType) (*Database, error) {
	var backend dbinc.Backend
	var err error
	switch backendType {
	case dbinc.BackendLevelDB:
		backend, err = dbleveldb.NewDB(dbfile)
	default:
		backend, err = dbbolt.NewBoltDatabase(dbfile)
	}
	if err != nil {
		return nil, err
	}

	return &Database{
		BackendType: backendType,
		backend:     backend,
	}, nil
}

// GetBackendType returns the backend type of the database in use
func (d *Database) GetBackendType() dbinc.BackendType {
	return d.BackendType
}

/*
	Create / Drop a table
	Usage:
	err := sysdb.NewTable("MyTable")
	err := sysdb.DropTable("MyTable")
*/

func (d *Database) NewTable(tableName string) error {
	return d.backend.NewTable(tableName)
}

func (d *Database) TableExists(tableName string) bool {
	return d.backend.TableExists(tableName)
}

func (d *Database) DropTable(tableName string) error {
	return d.backend.DropTable(tableName)
}

/*
	Write to database with given tablename and key. Example Usage:
	err := sysdb.Write("webserv", "port", "8000")
*/
func (d *Database) Write(tableName string, key string, value interface{}) error {
	return d.backend.Write(tableName, key, value)
}

/*
	Read from database and assign the content to a given datatype. Example Usage:
	port := ""
	err := sysdb.Read("webserv", "port", &port)
*/
func (d *Database) Read(tableName string, key string, assignee interface{}) error {
	return d.backend.Read(tableName, key, assignee)
}

func (d *Database) KeyExists(tableName string, key string) bool {
	return d.backend.KeyExists(tableName, key)
}

func (d *Database) Delete(tableName string, key string) error {
	return d.backend.Delete(tableName, key)
}

// List all key-value pairs in a table as [key, value] byte slice pairs
func (d *Database) ListTable(tableName string) ([][][]byte, error) {
	return d.backend.ListTable(tableName)
}

func (d *Database) Close() {
	d.backend.Close()
}
