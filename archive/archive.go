// Package archive persists verification runs in a bolt database so that
// experiment results can be listed and compared later without re-running the
// search. Records are stored under a monotonic sequence number, so iteration
// order is the order the runs happened in.
package archive

import (
	"bytes"
	"encoding/binary"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
	"go.dedis.ch/onet/v3/log"
	"go.dedis.ch/protobuf"
	bbolt "go.etcd.io/bbolt"
	"golang.org/x/xerrors"

	"github.com/muveraai/conclave/verify"
)

var bucketRuns = []byte("runs")

// Record is one archived verification run: what was checked, how, and what
// came out.
type Record struct {
	ID       string
	Scenario string
	Priority []string
	Bound    int
	Ran      time.Time
	Results  verify.Results
}

// Archive wraps the bolt database holding the records.
type Archive struct {
	db *bbolt.DB
	sync.Mutex
	bucket []byte
}

// Open opens, or creates, the archive at the given path.
func Open(path string) (*Archive, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, xerrors.Errorf("couldn't open archive: %v", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, xerrors.Errorf("couldn't create bucket: %v", err)
	}
	return &Archive{db: db, bucket: bucketRuns}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Store archives one run and returns the completed record. A missing ID is
// filled with a fresh one and a zero timestamp with the current time.
func (a *Archive) Store(rec Record) (Record, error) {
	a.Lock()
	defer a.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewV4().String()
	}
	if rec.Ran.IsZero() {
		rec.Ran = time.Now()
	}
	err := a.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(a.bucket)
		if b == nil {
			panic("bucket has not been created, this is a programmer error")
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		var key bytes.Buffer
		// BigEndian keeps the bolt iteration order chronological.
		if err := binary.Write(&key, binary.BigEndian, seq); err != nil {
			return err
		}
		buf, err := protobuf.Encode(&rec)
		if err != nil {
			return err
		}
		return b.Put(key.Bytes(), buf)
	})
	if err != nil {
		return Record{}, xerrors.Errorf("couldn't store run: %v", err)
	}
	log.Lvl2("archived verification run", rec.ID)
	return rec, nil
}

// List returns all archived records, oldest first.
func (a *Archive) List() ([]Record, error) {
	var out []Record
	err := a.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(a.bucket).ForEach(func(k, v []byte) error {
			var rec Record
			if err := protobuf.Decode(v, &rec); err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("couldn't list runs: %v", err)
	}
	return out, nil
}

// Get returns the record with the given ID.
func (a *Archive) Get(id string) (Record, error) {
	var rec Record
	found := false
	err := a.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(a.bucket).ForEach(func(k, v []byte) error {
			if found {
				return nil
			}
			var r Record
			if err := protobuf.Decode(v, &r); err != nil {
				return err
			}
			if r.ID == id {
				rec = r
				found = true
			}
			return nil
		})
	})
	if err != nil {
		return Record{}, xerrors.Errorf("couldn't read runs: %v", err)
	}
	if !found {
		return Record{}, xerrors.Errorf("no run with id %s", id)
	}
	return rec, nil
}

// Latest returns the most recently stored record.
func (a *Archive) Latest() (Record, error) {
	var rec Record
	err := a.db.View(func(tx *bbolt.Tx) error {
		_, v := tx.Bucket(a.bucket).Cursor().Last()
		if v == nil {
			return xerrors.New("archive is empty")
		}
		return protobuf.Decode(v, &rec)
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
