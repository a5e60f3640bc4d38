package dbbolt

import (
	"encoding/json"
	"errors"

	"github.com/boltdb/bolt"
	"imuslab.com/siteserv/mod/database/dbinc"
)

// Ensure the DB struct implements the Backend interface
var _ dbinc.Backend = (*DB)(nil)

type DB struct {
	db *bolt.DB
}

func NewBoltDatabase(dbfile string) (*DB, error) {
	db, err := bolt.Open(dbfile, 0600, nil)
	if err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// Create a new table. In bolt this is a top level bucket
func (d *DB) NewTable(tableName string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(tableName))
		return err
	})
}

// Check if table exists
func (d *DB) TableExists(tableName string) bool {
	return d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tableName))
		if b == nil {
			return errors.New("table not exists")
		}
		return nil
	}) == nil
}

// Drop the given table
func (d *DB) DropTable(tableName string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket([]byte(tableName))
	})
}

// Write to table. The value is JSON encoded before storing
func (d *DB) Write(tableName string, key string, value interface{}) error {
	jsonString, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(tableName))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), jsonString)
	})
}

func (d *DB) Read(tableName string, key string, assignee interface{}) error {
	return d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tableName))
		if b == nil {
			return errors.New("table not exists")
		}
		v := b.Get([]byte(key))
		if v == nil {
			return errors.New("key not exists")
		}
		return json.Unmarshal(v, assignee)
	})
}

func (d *DB) KeyExists(tableName string, key string) bool {
	if !d.TableExists(tableName) {
		//Table not exists. Do not proceed accessing key
		return false
	}
	keyExists := false
	d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tableName))
		if b.Get([]byte(key)) != nil {
			keyExists = true
		}
		return nil
	})
	return keyExists
}

func (d *DB) Delete(tableName string, key string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tableName))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (d *DB) ListTable(tableName string) ([][][]byte, error) {
	var results [][][]byte
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tableName))
		if b == nil {
			return errors.New("table not exists")
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			results = append(results, [][]byte{k, v})
		}
		return nil
	})
	return results, err
}

func (d *DB) Close() {
	d.db.Close()
}
