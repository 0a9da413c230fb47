// File: internal/auth/credentials.go
package auth

import (
	"crypto/subtle"

	"medical_assistant_backend/internal/network"
)

// CredentialChecker resolves a username/password pair to the remote user record.
type CredentialChecker interface {
	Lookup(username, password string) (network.NetworkUser, bool)
}

type account struct {
	password string
	user     network.NetworkUser
}

// StaticCredentials is the fixed allow-list served by the stub backend.
// Usernames and passwords match exactly; no normalization is applied.
type StaticCredentials struct {
	accounts map[string]account
}

// NewStaticCredentials returns the two built-in test accounts.
func NewStaticCredentials() *StaticCredentials {
	return &StaticCredentials{accounts: map[string]account{
		"alexminator@gmail.com": {password: "12345678", user: network.UserForTestWithPatient},
		"josefeliciano":         {password: "12345678", user: network.UserForTestWithDoctor},
	}}
}

// Lookup returns the matching record. ok is false on any mismatch.
func (c *StaticCredentials) Lookup(username, password string) (network.NetworkUser, bool) {
	acc, found := c.accounts[username]
	if !found {
		return network.NetworkUser{}, false
	}
	if subtle.ConstantTimeCompare([]byte(acc.password), []byte(password)) != 1 {
		return network.NetworkUser{}, false
	}
	return acc.user, true
}
