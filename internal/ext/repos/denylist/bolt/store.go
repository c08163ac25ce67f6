package bolt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/extguard/internal/ext/domain"
	"github.com/haukened/extguard/internal/ext/repos/denylist"
)

var (
	bucketExtensions = []byte("extensions")
	bucketMeta       = []byte("meta")

	metaVersion = []byte("version")
	metaUpdated = []byte("updated")
)

// boltStore implements denylist.Store using bbolt.
// Keys are canonical extensions; values are an 8 byte big-endian AddedAt (unix nanos)
// followed by the rule source.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (denylist.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketExtensions); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// Lookup returns the rule stored for ext, if any.
func (s *boltStore) Lookup(ext string) (domain.DenyRule, bool, error) {
	var (
		rule  domain.DenyRule
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExtensions)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(ext))
		if v == nil {
			return nil
		}
		r, err := decodeRule(ext, v)
		if err != nil {
			return err
		}
		rule, found = r, true
		return nil
	})
	if err != nil {
		return domain.DenyRule{}, false, err
	}
	return rule, found, nil
}

// RebuildAll replaces every stored extension and the metadata in a single transaction.
// Readers see either the old or the new snapshot.
func (s *boltStore) RebuildAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketExtensions); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(bucketExtensions)
		if err != nil {
			return err
		}
		for _, r := range rules {
			if r.Extension == "" {
				continue
			}
			key := []byte(r.Extension)
			// first rule wins, same as the in-memory set
			if b.Get(key) != nil {
				continue
			}
			if err := b.Put(key, encodeRule(r)); err != nil {
				return fmt.Errorf("put %q: %w", r.Extension, err)
			}
		}

		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		vbuf := make([]byte, 8)
		ubuf := make([]byte, 8)
		binary.BigEndian.PutUint64(vbuf, version)
		binary.BigEndian.PutUint64(ubuf, uint64(updatedUnix))
		if err := meta.Put(metaVersion, vbuf); err != nil {
			return err
		}
		return meta.Put(metaUpdated, ubuf)
	})
}

func (s *boltStore) Stats() denylist.StoreStats {
	st := denylist.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketExtensions); b != nil {
			st.Extensions = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(metaVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(metaUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

func encodeRule(r domain.DenyRule) []byte {
	buf := make([]byte, 8+len(r.Source))
	binary.BigEndian.PutUint64(buf[:8], uint64(r.AddedAt.UnixNano()))
	copy(buf[8:], r.Source)
	return buf
}

func decodeRule(ext string, v []byte) (domain.DenyRule, error) {
	if len(v) < 8 {
		return domain.DenyRule{}, fmt.Errorf("corrupt value for %q: %d bytes", ext, len(v))
	}
	return domain.DenyRule{
		Extension: ext,
		Source:    string(v[8:]),
		AddedAt:   time.Unix(0, int64(binary.BigEndian.Uint64(v[:8]))),
	}, nil
}

var _ denylist.Store = (*boltStore)(nil)
