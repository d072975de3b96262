package ports

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryDatabase_GetItem(t *testing.T) {
	ctx := context.Background()

	db := NewMemoryDatabase().
		WithItem("demo-items", "demo-item", Record{"id": "demo-item", "name": "widget"}).
		WithItem("other-table", "demo-item", Record{"id": "demo-item", "name": "gadget"})

	tests := []struct {
		name     string
		table    string
		key      Key
		want     Record
		wantMiss bool
	}{
		{
			name:  "seeded item resolves",
			table: "demo-items",
			key:   Key{"id": "demo-item"},
			want:  Record{"id": "demo-item", "name": "widget"},
		},
		{
			name:  "table participates in the composite key",
			table: "other-table",
			key:   Key{"id": "demo-item"},
			want:  Record{"id": "demo-item", "name": "gadget"},
		},
		{
			name:     "unseeded key misses",
			table:    "demo-items",
			key:      Key{"id": "missing"},
			wantMiss: true,
		},
		{
			name:     "unseeded table misses",
			table:    "empty-table",
			key:      Key{"id": "demo-item"},
			wantMiss: true,
		},
		{
			name:     "empty key misses",
			table:    "demo-items",
			key:      Key{},
			wantMiss: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetItem(ctx, tt.table, tt.key)
			if err != nil {
				t.Fatalf("GetItem() error = %v, want nil", err)
			}

			if tt.wantMiss {
				if got != nil {
					t.Errorf("GetItem() = %v, want nil for a miss", got)
				}
				return
			}

			if len(got) != len(tt.want) {
				t.Fatalf("GetItem() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("GetItem()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestMemoryDatabase_GetItem_FirstAttributeRule(t *testing.T) {
	ctx := context.Background()

	// Only the lexicographically first attribute name participates in the
	// lookup; the second attribute's value is ignored.
	db := NewMemoryDatabase().
		WithItem("demo-items", "item-1", Record{"name": "widget"})

	got, err := db.GetItem(ctx, "demo-items", Key{"id": "item-1", "sort": "ignored"})
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if got == nil || got["name"] != "widget" {
		t.Errorf("GetItem() = %v, want record with name=widget", got)
	}

	// "aardvark" sorts before "id", so its value becomes the lookup key.
	got, err = db.GetItem(ctx, "demo-items", Key{"id": "item-1", "aardvark": "elsewhere"})
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetItem() = %v, want miss when the first attribute does not match", got)
	}
}

func TestMemoryDatabase_GetItem_ReturnsCopy(t *testing.T) {
	ctx := context.Background()

	db := NewMemoryDatabase().
		WithItem("demo-items", "demo-item", Record{"id": "demo-item"})

	first, err := db.GetItem(ctx, "demo-items", Key{"id": "demo-item"})
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	first["id"] = "mutated"

	second, err := db.GetItem(ctx, "demo-items", Key{"id": "demo-item"})
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if second["id"] != "demo-item" {
		t.Errorf("seeded record was mutated through a returned copy: %v", second)
	}
}

func TestMemoryDatabase_FailWith(t *testing.T) {
	ctx := context.Background()
	forced := errors.New("connection refused")

	db := NewMemoryDatabase().
		WithItem("demo-items", "demo-item", Record{"id": "demo-item"}).
		FailWith(forced)

	if _, err := db.GetItem(ctx, "demo-items", Key{"id": "demo-item"}); !errors.Is(err, forced) {
		t.Errorf("GetItem() error = %v, want forced error", err)
	}
	if err := db.PutItem(ctx, "demo-items", Record{"id": "x"}); !errors.Is(err, forced) {
		t.Errorf("PutItem() error = %v, want forced error", err)
	}
}

func TestMemoryDatabase_CallCounters(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabase()

	if db.GetItemCalls() != 0 || db.PutItemCalls() != 0 {
		t.Fatalf("fresh double has nonzero counters: get=%d put=%d", db.GetItemCalls(), db.PutItemCalls())
	}

	_, _ = db.GetItem(ctx, "t", Key{"id": "k"})
	_, _ = db.GetItem(ctx, "t", Key{"id": "k"})
	if err := db.PutItem(ctx, "t", Record{"id": "k"}); err != nil {
		t.Fatalf("PutItem() error = %v, want no-op success", err)
	}

	if got := db.GetItemCalls(); got != 2 {
		t.Errorf("GetItemCalls() = %d, want 2", got)
	}
	if got := db.PutItemCalls(); got != 1 {
		t.Errorf("PutItemCalls() = %d, want 1", got)
	}

	db.Reset()
	if db.GetItemCalls() != 0 || db.PutItemCalls() != 0 {
		t.Errorf("Reset() left counters: get=%d put=%d", db.GetItemCalls(), db.PutItemCalls())
	}
}

func TestMemoryObjectStore_GetObject(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryObjectStore().
		WithObject("demo-bucket", "demo-object.txt", []byte("hello world"))

	tests := []struct {
		name    string
		bucket  string
		key     string
		want    string
		wantErr bool
	}{
		{
			name:   "seeded object resolves",
			bucket: "demo-bucket",
			key:    "demo-object.txt",
			want:   "hello world",
		},
		{
			name:    "missing key is an error",
			bucket:  "demo-bucket",
			key:     "missing.txt",
			wantErr: true,
		},
		{
			name:    "missing bucket is an error",
			bucket:  "other-bucket",
			key:     "demo-object.txt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetObject(ctx, tt.bucket, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetObject() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !IsNotFound(err) {
					t.Errorf("GetObject() error = %v, want NotFound kind", err)
				}
				return
			}

			if string(got) != tt.want {
				t.Errorf("GetObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMemoryObjectStore_GetObject_ReturnsCopy(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryObjectStore().
		WithObject("demo-bucket", "demo-object.txt", []byte("abc"))

	first, err := store.GetObject(ctx, "demo-bucket", "demo-object.txt")
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	first[0] = 'z'

	second, err := store.GetObject(ctx, "demo-bucket", "demo-object.txt")
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	if string(second) != "abc" {
		t.Errorf("seeded object was mutated through a returned copy: %q", second)
	}
}

func TestMemoryObjectStore_FailWithAndCounters(t *testing.T) {
	ctx := context.Background()
	forced := errors.New("access denied")

	store := NewMemoryObjectStore().
		WithObject("demo-bucket", "demo-object.txt", []byte("x")).
		FailWith(forced)

	if _, err := store.GetObject(ctx, "demo-bucket", "demo-object.txt"); !errors.Is(err, forced) {
		t.Errorf("GetObject() error = %v, want forced error", err)
	}
	if err := store.PutObject(ctx, "demo-bucket", "k", []byte("y")); !errors.Is(err, forced) {
		t.Errorf("PutObject() error = %v, want forced error", err)
	}

	if got := store.GetObjectCalls(); got != 1 {
		t.Errorf("GetObjectCalls() = %d, want 1", got)
	}
	if got := store.PutObjectCalls(); got != 1 {
		t.Errorf("PutObjectCalls() = %d, want 1", got)
	}
}

func TestMemoryDoubles_ConcurrentReads(t *testing.T) {
	ctx := context.Background()

	db := NewMemoryDatabase().
		WithItem("demo-items", "demo-item", Record{"id": "demo-item"})
	store := NewMemoryObjectStore().
		WithObject("demo-bucket", "demo-object.txt", []byte("payload"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := db.GetItem(ctx, "demo-items", Key{"id": "demo-item"}); err != nil {
					t.Errorf("GetItem() error = %v", err)
					return
				}
				if _, err := store.GetObject(ctx, "demo-bucket", "demo-object.txt"); err != nil {
					t.Errorf("GetObject() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := db.GetItemCalls(); got != 16*50 {
		t.Errorf("GetItemCalls() = %d, want %d", got, 16*50)
	}
}
