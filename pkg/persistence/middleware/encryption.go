package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// ErrNotSealed is returned when an encrypted store loads a plain snapshot.
var ErrNotSealed = errors.New("snapshot is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.ModelStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts snapshots using
// AES-GCM. The stored envelope only exposes the model name and update time.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	for i, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256)", i)
		}
	}
	return func(next ports.ModelStore) ports.ModelStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error {
	plainText, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt snapshot: %w", err)
	}

	envelope := &domain.ModelSnapshot{
		Name:      snap.Name,
		UpdatedAt: snap.UpdatedAt,
		Sealed:    base64.StdEncoding.EncodeToString(ciphertext),
	}
	return m.next.Save(ctx, name, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	// Fail secure: a configured key means every snapshot must be sealed.
	if envelope.Sealed == "" {
		return nil, ErrNotSealed
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
	}

	var snap domain.ModelSnapshot
	if err := json.Unmarshal(plainText, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted snapshot: %w", err)
	}
	return &snap, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
