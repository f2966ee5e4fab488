package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName          = "invoices"
	dateIndexBucketName = "invoices_by_settlement_date"

	dateKeyLayout = "2006-01-02"
)

// ErrNotFound is returned when no invoice has the requested ID
var ErrNotFound = errors.New("invoice not found")

// DB defines the interface for invoice persistence
type DB interface {
	// SaveInvoice inserts or replaces an invoice
	SaveInvoice(inv *Invoice) error

	// GetInvoice retrieves an invoice by ID
	GetInvoice(id string) (*Invoice, error)

	// ListInvoices returns all invoices ordered by settlement date
	ListInvoices() ([]*Invoice, error)

	// FindInvoicesBySettlementDateBetween returns invoices settled within
	// [from, to], both days included
	FindInvoicesBySettlementDateBetween(from, to time.Time) ([]*Invoice, error)

	// DeleteInvoice removes an invoice
	DeleteInvoice(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB.
// Invoices are stored as JSON keyed by ID; a second bucket maps
// "<settlement date>/<id>" to the ID for range queries.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketName, dateIndexBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// dateIndexKey returns the index key of an invoice, nil when it has no settlement date
func dateIndexKey(inv *Invoice) []byte {
	if inv.SettlementDate == nil {
		return nil
	}
	return []byte(inv.SettlementDate.Format(dateKeyLayout) + "/" + inv.ID)
}

// SaveInvoice saves an invoice and updates the date index
func (b *BoltDB) SaveInvoice(inv *Invoice) error {
	if inv.ID == "" {
		return fmt.Errorf("saving invoice: empty id")
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		index := tx.Bucket([]byte(dateIndexBucketName))

		if old := bucket.Get([]byte(inv.ID)); old != nil {
			var prev Invoice
			if err := json.Unmarshal(old, &prev); err != nil {
				return fmt.Errorf("unmarshaling invoice: %w", err)
			}
			if key := dateIndexKey(&prev); key != nil {
				if err := index.Delete(key); err != nil {
					return err
				}
			}
		}

		data, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("marshaling invoice: %w", err)
		}
		if err := bucket.Put([]byte(inv.ID), data); err != nil {
			return err
		}
		if key := dateIndexKey(inv); key != nil {
			return index.Put(key, []byte(inv.ID))
		}
		return nil
	})
}

// GetInvoice retrieves an invoice by ID
func (b *BoltDB) GetInvoice(id string) (*Invoice, error) {
	var inv *Invoice
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		inv, err = getInvoice(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func getInvoice(tx *bbolt.Tx, id string) (*Invoice, error) {
	data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("unmarshaling invoice: %w", err)
	}
	return &inv, nil
}

// ListInvoices returns all invoices, undated ones first, then by settlement date and ID
func (b *BoltDB) ListInvoices() ([]*Invoice, error) {
	invoices := make([]*Invoice, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var inv Invoice
			if err := json.Unmarshal(v, &inv); err != nil {
				return fmt.Errorf("unmarshaling invoice: %w", err)
			}
			invoices = append(invoices, &inv)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(invoices, func(i, j int) bool {
		return bytes.Compare(sortKey(invoices[i]), sortKey(invoices[j])) < 0
	})
	return invoices, nil
}

func sortKey(inv *Invoice) []byte {
	if key := dateIndexKey(inv); key != nil {
		return key
	}
	return []byte("/" + inv.ID)
}

// FindInvoicesBySettlementDateBetween walks the date index from "from" up to and including "to"
func (b *BoltDB) FindInvoicesBySettlementDateBetween(from, to time.Time) ([]*Invoice, error) {
	invoices := make([]*Invoice, 0)
	lower := []byte(from.Format(dateKeyLayout))
	upper := []byte(to.Format(dateKeyLayout) + "/\xff")

	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(dateIndexBucketName)).Cursor()
		for k, v := c.Seek(lower); k != nil && bytes.Compare(k, upper) <= 0; k, v = c.Next() {
			inv, err := getInvoice(tx, string(v))
			if err != nil {
				return err
			}
			invoices = append(invoices, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice and its index entry
func (b *BoltDB) DeleteInvoice(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}
		var inv Invoice
		if err := json.Unmarshal(data, &inv); err != nil {
			return fmt.Errorf("unmarshaling invoice: %w", err)
		}
		if key := dateIndexKey(&inv); key != nil {
			if err := tx.Bucket([]byte(dateIndexBucketName)).Delete(key); err != nil {
				return err
			}
		}
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
