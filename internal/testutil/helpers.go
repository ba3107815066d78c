package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/fundwatch/fund-monitor-backend/internal/cache"
	"github.com/fundwatch/fund-monitor-backend/internal/eastmoney"
	"github.com/fundwatch/fund-monitor-backend/internal/gateway"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
)

func NewTestLinkService(t *testing.T, db *sql.DB) *service.LinkService {
	t.Helper()

	favoriteRepo := repository.NewLinkRepository(db, model.LinkFavorite)
	monitorRepo := repository.NewLinkRepository(db, model.LinkMonitor)

	return service.NewLinkService(favoriteRepo, monitorRepo)
}

func NewTestRuleService(t *testing.T, db *sql.DB) *service.RuleService {
	t.Helper()

	return service.NewRuleService(repository.NewRuleRepository(db))
}

// NewTestFundService creates a FundService backed by mock upstream clients.
func NewTestFundService(t *testing.T, db *sql.DB, fundClient eastmoney.Client, gatewayClient gateway.Client) *service.FundService {
	t.Helper()

	favoriteRepo := repository.NewLinkRepository(db, model.LinkFavorite)
	monitorRepo := repository.NewLinkRepository(db, model.LinkMonitor)

	return service.NewFundService(
		fundClient,
		gatewayClient,
		cache.New(),
		favoriteRepo,
		monitorRepo,
	)
}

// NewTestAlertService creates an AlertService backed by a mock gateway.
// The returned cipher is the one used for webhook encryption, so tests can
// seed notification_setting rows with matching ciphertext.
func NewTestAlertService(t *testing.T, db *sql.DB, gatewayClient gateway.Client) (*service.AlertService, *service.SecretCipher) {
	t.Helper()

	cipher := NewTestCipher(t)
	svc := service.NewAlertService(
		gatewayClient,
		repository.NewRuleRepository(db),
		repository.NewNotificationRepository(db),
		cipher,
	)

	return svc, cipher
}

func NewTestNotificationService(t *testing.T, db *sql.DB) (*service.NotificationService, *service.SecretCipher) {
	t.Helper()

	cipher := NewTestCipher(t)
	svc := service.NewNotificationService(repository.NewNotificationRepository(db), cipher)

	return svc, cipher
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// NewTestCipher creates a SecretCipher with a throwaway key.
func NewTestCipher(t *testing.T) *service.SecretCipher {
	t.Helper()

	cipher, err := service.NewRandomSecretCipher()
	if err != nil {
		t.Fatalf("Failed to create test cipher: %v", err)
	}
	return cipher
}

// EncryptWebhook encrypts a webhook URL with the given cipher, for seeding
// notification_setting rows the code under test will decrypt.
func EncryptWebhook(t *testing.T, cipher *service.SecretCipher, url string) string {
	t.Helper()

	encrypted, err := cipher.Encrypt(url)
	if err != nil {
		t.Fatalf("Failed to encrypt test webhook: %v", err)
	}
	return encrypted
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUserID generates a unique opaque user identity for testing.
func MakeUserID() string {
	return "user-" + randomAlphanumeric(8)
}

// MakeFundCode generates a random six-digit fund code.
//
// Example usage:
//
//	code := testutil.MakeFundCode()
//	// Returns: "161725"
func MakeFundCode() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// MakeRuleName generates a unique rule name for testing.
func MakeRuleName(base string) string {
	if base == "" {
		base = "Rule"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
