package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.SourceKey(" https://example.com/data.json "); got != "source:https://example.com/data.json" {
		t.Errorf("SourceKey unexpected: %s", got)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "simple"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Style: "simple"})
	ak3 := k.ArtifactKey("hash124", ArtifactKeyOpts{Format: "svg", Style: "simple"})
	ak4 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "simple", Layout: map[string]float64{"node_width": 150}})
	if ak1 == ak2 || ak1 == ak3 || ak1 == ak4 {
		t.Error("Different artifact inputs should produce different keys")
	}
	if ak1 != k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "simple"}) {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey should be prefixed: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "team:123:")

	if got := scoped.SourceKey("data.json"); got != "team:123:source:data.json" {
		t.Errorf("ScopedKeyer SourceKey unexpected: %s", got)
	}

	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(key, "team:123:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.SourceKey("x")
	if key != "prefix:source:x" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

var (
	errTransient = errors.New("connection reset")
	errPermanent = errors.New("no such list")
)

// quickBackoff keeps the retry tests fast.
var quickBackoff = Backoff{Attempts: 3, Delay: time.Millisecond}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the original")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success first try", 0, nil, 1, nil},
		{"permanent error stops", 5, errPermanent, 1, errPermanent},
		{"transient then success", 1, Retryable(errTransient), 2, nil},
		{"attempts exhausted", 5, Retryable(errTransient), 3, errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := quickBackoff.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := quickBackoff.Retry(ctx, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error {
		calls++
		return Retryable(errTransient)
	})
	if calls != 1 {
		t.Errorf("zero Attempts should still call once, got %d", calls)
	}
}

func TestConfigKeyer(t *testing.T) {
	plain := Config{}.Keyer()
	scoped := Config{KeyPrefix: "acme:"}.Keyer()

	opts := ArtifactKeyOpts{Format: "svg", Date: "2024-06-15"}
	if got, want := scoped.ArtifactKey("abc", opts), "acme:"+plain.ArtifactKey("abc", opts); got != want {
		t.Errorf("scoped ArtifactKey = %q, want %q", got, want)
	}
	if plain.SourceKey("x") == scoped.SourceKey("x") {
		t.Error("prefix should change source keys")
	}
}

func TestHashJSON(t *testing.T) {
	a := HashJSON([]int{1, 2})
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64", len(a))
	}
	if a != HashJSON([]int{1, 2}) {
		t.Error("hash should be deterministic")
	}
	if a == HashJSON([]int{2, 1}) {
		t.Error("order should change the hash")
	}
	if a != Hash([]byte("[1,2]")) {
		t.Error("HashJSON should hash the JSON encoding")
	}
}
