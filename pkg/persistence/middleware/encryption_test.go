package middleware_test

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
	"github.com/aretw0/stepwise/pkg/ports/tests"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func mustEncrypt(t *testing.T, cfg middleware.EncryptionConfig) middleware.Middleware {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatalf("NewEncryptionMiddleware failed: %v", err)
	}
	return mw
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := mustEncrypt(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	tests.RunModelStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := mustEncrypt(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	ctx := context.Background()
	original := tests.SampleSnapshot("secret-model")

	if err := secureStore.Save(ctx, "secret-model", original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlyingStore.Load(ctx, "secret-model")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored.Steps) != 0 || len(stored.Entities) != 0 {
		t.Fatalf("Expected steps and entities to be hidden, found %d steps and %d entities", len(stored.Steps), len(stored.Entities))
	}
	if stored.Sealed == "" {
		t.Fatal("Expected sealed payload")
	}
	if strings.Contains(stored.Sealed, "PorePressureBC") {
		t.Fatal("Sealed payload leaks plaintext")
	}

	loaded, err := secureStore.Load(ctx, "secret-model")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if len(loaded.Entities) != 1 || loaded.Entities[0].Kind != "PorePressureBC" {
		t.Errorf("Expected decrypted entity, got %+v", loaded.Entities)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := mustEncrypt(t, middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	original := tests.SampleSnapshot("rotation")
	original.Steps = original.Steps[:2]

	if err := secureStoreOld.Save(ctx, "rotation", original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := mustEncrypt(t, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "rotation")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if len(loaded.Steps) != 2 {
		t.Errorf("Decryption with fallback key failed")
	}

	// Re-saving seals with the new key only.
	if err := secureStoreNew.Save(ctx, "rotation", loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := secureStoreOld.Load(ctx, "rotation"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", tests.SampleSnapshot("plain")); err != nil {
		t.Fatal(err)
	}

	secureStore := mustEncrypt(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	_, err := secureStore.Load(ctx, "plain")
	if !errors.Is(err, middleware.ErrNotSealed) {
		t.Errorf("Expected ErrNotSealed, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    make([]byte, 32),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	if err == nil {
		t.Error("Expected error for invalid fallback key size")
	}
}
