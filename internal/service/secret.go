package service

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// SecretCipher encrypts webhook URLs before they reach the database and
// decrypts them on read. Tokens carry no TTL; rotation happens by
// re-saving the setting under a new key.
type SecretCipher struct {
	key *fernet.Key
}

// NewSecretCipher parses a base64 fernet key.
func NewSecretCipher(encodedKey string) (*SecretCipher, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &SecretCipher{key: key}, nil
}

// NewRandomSecretCipher generates a throwaway key, used by tests and by
// deployments that have not configured FERNET_KEY (secrets then do not
// survive a restart).
func NewRandomSecretCipher() (*SecretCipher, error) {
	key := &fernet.Key{}
	if err := key.Generate(); err != nil {
		return nil, fmt.Errorf("failed to generate fernet key: %w", err)
	}
	return &SecretCipher{key: key}, nil
}

// Encrypt returns the fernet token for plaintext.
func (c *SecretCipher) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and opens a fernet token.
func (c *SecretCipher) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt secret: invalid token")
	}
	return string(plaintext), nil
}
