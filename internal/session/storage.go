package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var ErrNoIdentity = errors.New("no stored identity")

// Storage keeps identities across restarts, keyed by session id.
type Storage interface {
	Load(sessionID string) (domain.Identity, error)
	Save(sessionID string, identity domain.Identity) error
	Delete(sessionID string) error
}

var identityBucket = []byte("identities")

type BoltStorage struct {
	db *bolt.DB
}

func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open token store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(identityBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create identity bucket: %w", err)
	}
	return &BoltStorage{db: db}, nil
}

func (b *BoltStorage) Load(sessionID string) (domain.Identity, error) {
	var identity domain.Identity
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(identityBucket).Get([]byte(sessionID))
		if data == nil {
			return ErrNoIdentity
		}
		return json.Unmarshal(data, &identity)
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}

func (b *BoltStorage) Save(sessionID string, identity domain.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(identityBucket).Put([]byte(sessionID), data)
	})
}

func (b *BoltStorage) Delete(sessionID string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(identityBucket).Delete([]byte(sessionID))
	})
}

func (b *BoltStorage) Close() error {
	return b.db.Close()
}

// MemoryStorage is used when no token database is configured.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]domain.Identity
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]domain.Identity)}
}

func (m *MemoryStorage) Load(sessionID string) (domain.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	identity, ok := m.items[sessionID]
	if !ok {
		return domain.Identity{}, ErrNoIdentity
	}
	return identity, nil
}

func (m *MemoryStorage) Save(sessionID string, identity domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[sessionID] = identity
	return nil
}

func (m *MemoryStorage) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, sessionID)
	return nil
}
