package boltaudit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/solos-dev/solos/internal/models"
)

// bucketFailures хранит записи по ключу identity_hash,
// внутри — вложенный bucket с ключами timestamp|seq
var bucketFailures = []byte("login_failures")

// Log — append-only журнал неудачных попыток входа поверх BoltDB.
// Журнал живет в отдельном файле: основная SQLite база держит одного
// писателя, и запись аудита не должна конкурировать с пользовательскими
// транзакциями.
type Log struct {
	db *bbolt.DB
}

// New creates a new BoltDB audit log instance.
// dbPath is the path to the BoltDB database file.
func New(ctx context.Context, dbPath string) (*Log, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	log := &Log{db: db}

	if err := log.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return log, nil
}

// Close closes the database connection
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (l *Log) initBuckets() error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketFailures); err != nil {
			return fmt.Errorf("failed to create failures bucket: %w", err)
		}
		return nil
	})
}

// attemptKey строит сортируемый по времени ключ записи.
// Фиксированная ширина UnixNano дает лексикографический порядок ==
// хронологическому, seq разводит записи с одинаковым timestamp.
func attemptKey(ts time.Time, seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d|%016x", ts.UTC().UnixNano(), seq))
}

// AppendFailure appends one failed attempt record
func (l *Log) AppendFailure(ctx context.Context, attempt *models.FailedAttempt) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketFailures)
		if root == nil {
			return fmt.Errorf("failures bucket not found")
		}

		// Отдельный вложенный bucket на каждый identity_hash
		bucket, err := root.CreateBucketIfNotExists([]byte(attempt.IdentityHash))
		if err != nil {
			return fmt.Errorf("failed to create identity bucket: %w", err)
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get sequence: %w", err)
		}

		data, err := json.Marshal(attempt)
		if err != nil {
			return fmt.Errorf("failed to marshal attempt: %w", err)
		}

		if err := bucket.Put(attemptKey(attempt.Timestamp, seq), data); err != nil {
			return fmt.Errorf("failed to append attempt: %w", err)
		}

		return nil
	})
}

// CountFailuresSince counts failed attempts for an identity digest
// recorded at or after since
func (l *Log) CountFailuresSince(ctx context.Context, identityHash string, since time.Time) (int, error) {
	count := 0

	err := l.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketFailures)
		if root == nil {
			return fmt.Errorf("failures bucket not found")
		}

		bucket := root.Bucket([]byte(identityHash))
		if bucket == nil {
			// Ни одной неудачной попытки для этого identity
			return nil
		}

		// Ключи отсортированы по времени: сканируем от since до конца
		c := bucket.Cursor()
		min := attemptKey(since, 0)
		for k, _ := c.Seek(min); k != nil; k, _ = c.Next() {
			count++
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return count, nil
}
