package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.Len() != 0 {
		t.Errorf("new store should be empty, got %d keys", store.Len())
	}
}

func TestMemoryStore_SetGet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "dosha label", key: KeyDosha, value: "Pitta"},
		{name: "condition label", key: KeyCondition, value: "Insomnia-like sleep"},
		{name: "empty value", key: "blank", value: ""},
		{name: "empty key", key: "", value: "x", wantErr: ErrEmptyKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			ctx := context.Background()

			err := store.Set(ctx, tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			got, found, err := store.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() unexpected error = %v", err)
			}
			if !found {
				t.Fatal("Get() found = false, want true")
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	store := NewMemoryStore()

	got, found, err := store.Get(context.Background(), KeyDosha)
	if err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	if found {
		t.Error("Get() found = true for missing key")
	}
	if got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}

func TestMemoryStore_Set_Overwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, v := range []string{"Vata", "Kapha", "Pitta"} {
		if err := store.Set(ctx, KeyDosha, v); err != nil {
			t.Fatalf("Set(%q) error = %v", v, err)
		}
	}

	got, _, _ := store.Get(ctx, KeyDosha)
	if got != "Pitta" {
		t.Errorf("Get() = %q, want last write %q", got, "Pitta")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, KeyCondition, "Awake")

	existed, err := store.Delete(ctx, KeyCondition)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !existed {
		t.Error("Delete() = false for existing key")
	}

	existed, err = store.Delete(ctx, KeyCondition)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if existed {
		t.Error("second Delete() = true, want false")
	}

	if _, found, _ := store.Get(ctx, KeyCondition); found {
		t.Error("key still present after Delete()")
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Set(ctx, KeyDosha, "Vata"); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
	if _, _, err := store.Get(ctx, KeyDosha); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if _, err := store.Delete(ctx, KeyDosha); !errors.Is(err, context.Canceled) {
		t.Errorf("Delete() error = %v, want context.Canceled", err)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, KeyCondition, fmt.Sprintf("writer-%d-%d", i, j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _, _ = store.Get(ctx, KeyCondition)
			}
		}()
	}
	wg.Wait()

	if _, found, _ := store.Get(ctx, KeyCondition); !found {
		t.Error("expected a value after concurrent writes")
	}
}

func TestGetOr(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStore()
	_ = store.Set(ctx, KeyDosha, "Kapha")
	_ = store.Set(ctx, KeyCondition, "")

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "present", key: KeyDosha, want: "Kapha"},
		{name: "empty value uses fallback", key: KeyCondition, want: "Unknown"},
		{name: "missing uses fallback", key: "other", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetOr(ctx, store, tt.key, "Unknown")
			if err != nil {
				t.Fatalf("GetOr() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GetOr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetOr_StoreError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := GetOr(ctx, NewMemoryStore(), KeyDosha, "Unknown")
	if err == nil {
		t.Fatal("GetOr() expected error from canceled context")
	}
	if got != "Unknown" {
		t.Errorf("GetOr() = %q, want fallback", got)
	}
}
