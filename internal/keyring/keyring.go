// Package keyring keeps database credentials in the OS secret store.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested account
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Accounts lists the keyring entries habitual knows how to manage
var Accounts = []string{constants.DefaultKeyringUser}

// Get reads the secret stored for account under the habitual service name.
func Get(account string) (string, error) {
	secret, err := gokeyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func Set(account, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%s cannot be empty", account)
	}
	if err := gokeyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", account, err)
	}
	return nil
}

func Delete(account string) error {
	if err := gokeyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", account, err)
	}
	return nil
}

// GetConnectionString returns the stored PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	return Set(constants.DefaultKeyringUser, connStr)
}

func DeleteConnectionString() error {
	return Delete(constants.DefaultKeyringUser)
}

// IsAvailable makes a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := gokeyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}

// Mask hides the password portion of a connection string for display.
func Mask(connStr string) string {
	scheme, rest, ok := strings.Cut(connStr, "://")
	if !ok {
		fields := strings.Fields(connStr)
		for i, f := range fields {
			if k, _, found := strings.Cut(f, "="); found && strings.EqualFold(k, "password") {
				fields[i] = k + "=****"
			}
		}
		return strings.Join(fields, " ")
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return connStr
	}
	if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
		return scheme + "://" + user + ":****@" + host
	}
	return connStr
}
