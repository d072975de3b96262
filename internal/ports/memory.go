package ports

import (
	"context"
	"sort"
	"sync"
)

// compositeKey joins a partition name and an item key the way the memory
// doubles index their state.
func compositeKey(partition, key string) string {
	return partition + "::" + key
}

// MemoryDatabase is an in-memory implementation of Database for testing.
// Seed it with WithItem before use; seeded state plus an optional forced
// error fully determine its behavior.
type MemoryDatabase struct {
	mu       sync.RWMutex
	items    map[string]Record
	forced   error
	getCalls int
	putCalls int
}

// NewMemoryDatabase creates an empty MemoryDatabase
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		items: make(map[string]Record),
	}
}

// WithItem seeds a record under (table, key) and returns the database for
// chaining
func (m *MemoryDatabase) WithItem(table, key string, item Record) *MemoryDatabase {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[compositeKey(table, key)] = copyRecord(item)
	return m
}

// FailWith forces every subsequent call to return err
func (m *MemoryDatabase) FailWith(err error) *MemoryDatabase {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forced = err
	return m
}

// GetItem implements Database.GetItem.
//
// The effective lookup value is the value of the lexicographically first
// attribute name in key. Single-attribute keys resolve exactly; composite
// keys collapse to one attribute, a deliberate simplification of the double
// rather than a backend property.
func (m *MemoryDatabase) GetItem(ctx context.Context, table string, key Key) (Record, error) {
	m.mu.Lock()
	m.getCalls++
	forced := m.forced
	m.mu.Unlock()

	if forced != nil {
		return nil, forced
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, exists := m.items[compositeKey(table, firstKeyValue(key))]
	if !exists {
		return nil, nil
	}
	return copyRecord(item), nil
}

// PutItem implements Database.PutItem. Writes are recorded but not stored;
// the request path under test only reads.
func (m *MemoryDatabase) PutItem(ctx context.Context, table string, item Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++
	if m.forced != nil {
		return m.forced
	}
	return nil
}

// GetItemCalls returns how many times GetItem has been invoked
func (m *MemoryDatabase) GetItemCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCalls
}

// PutItemCalls returns how many times PutItem has been invoked
func (m *MemoryDatabase) PutItemCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.putCalls
}

// Reset clears all seeded state and counters
func (m *MemoryDatabase) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]Record)
	m.forced = nil
	m.getCalls = 0
	m.putCalls = 0
}

// MemoryObjectStore is an in-memory implementation of ObjectStore for
// testing
type MemoryObjectStore struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	forced   error
	getCalls int
	putCalls int
}

// NewMemoryObjectStore creates an empty MemoryObjectStore
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{
		objects: make(map[string][]byte),
	}
}

// WithObject seeds raw bytes under (bucket, key) and returns the store for
// chaining
func (m *MemoryObjectStore) WithObject(bucket, key string, data []byte) *MemoryObjectStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[compositeKey(bucket, key)] = append([]byte(nil), data...)
	return m
}

// FailWith forces every subsequent call to return err
func (m *MemoryObjectStore) FailWith(err error) *MemoryObjectStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forced = err
	return m
}

// GetObject implements ObjectStore.GetObject. A missing object is an error,
// matching the port contract.
func (m *MemoryObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	m.mu.Lock()
	m.getCalls++
	forced := m.forced
	m.mu.Unlock()

	if forced != nil {
		return nil, forced
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.objects[compositeKey(bucket, key)]
	if !exists {
		return nil, NewStorageError("GetObject", compositeKey(bucket, key), ErrObjectNotFound, false)
	}
	return append([]byte(nil), data...), nil
}

// PutObject implements ObjectStore.PutObject. Writes are recorded but not
// stored.
func (m *MemoryObjectStore) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++
	if m.forced != nil {
		return m.forced
	}
	return nil
}

// GetObjectCalls returns how many times GetObject has been invoked
func (m *MemoryObjectStore) GetObjectCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCalls
}

// PutObjectCalls returns how many times PutObject has been invoked
func (m *MemoryObjectStore) PutObjectCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.putCalls
}

// Reset clears all seeded state and counters
func (m *MemoryObjectStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects = make(map[string][]byte)
	m.forced = nil
	m.getCalls = 0
	m.putCalls = 0
}

// firstKeyValue returns the value of the lexicographically first attribute
// name in key, or "" for an empty key. Go maps have no stable iteration
// order, so sorting is what makes the rule deterministic.
func firstKeyValue(key Key) string {
	if len(key) == 0 {
		return ""
	}

	names := make([]string, 0, len(key))
	for name := range key {
		names = append(names, name)
	}
	sort.Strings(names)
	return key[names[0]]
}

func copyRecord(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
