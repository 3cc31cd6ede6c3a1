package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
)

const (
	// MaxStoredNetworks is the number of networks the device keeps.
	MaxStoredNetworks = 5
	// MaxSSIDLength is the 802.11 SSID limit in bytes.
	MaxSSIDLength = 32
)

var (
	// ErrTooManyCredentials is returned by NewTable when more than
	// MaxStoredNetworks records are given.
	ErrTooManyCredentials = errors.New("too many credentials")
	// ErrInvalidCredential is wrapped by every Validate failure.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Credential is one candidate wireless network.
type Credential struct {
	SSID     string
	Password string
	AuthType AuthType
	Cipher   Cipher
	// Identity is the 802.1x user name, only used with enterprise auth.
	Identity string
}

// Validate checks the record against what the device and NetworkManager
// will accept.
func (c Credential) Validate() error {
	if c.SSID == "" {
		return fmt.Errorf("%w: empty ssid", ErrInvalidCredential)
	}
	if len(c.SSID) > MaxSSIDLength {
		return fmt.Errorf("%w: ssid %q is %d bytes, max %d", ErrInvalidCredential, c.SSID, len(c.SSID), MaxSSIDLength)
	}
	if !c.AuthType.Valid() {
		return fmt.Errorf("%w: unknown auth type %d", ErrInvalidCredential, uint8(c.AuthType))
	}
	if !c.Cipher.Valid() {
		return fmt.Errorf("%w: unknown cipher %d", ErrInvalidCredential, uint8(c.Cipher))
	}

	switch c.AuthType {
	case AuthOpen:
		if c.Password != "" {
			return fmt.Errorf("%w: open network %q has a password", ErrInvalidCredential, c.SSID)
		}
	case AuthWEP:
		if !validWEPKey(c.Password) {
			return fmt.Errorf("%w: wep key for %q must be 5 or 13 characters, or 10 or 26 hex digits", ErrInvalidCredential, c.SSID)
		}
	case AuthWPA, AuthWPA2:
		if !validPSK(c.Password) {
			return fmt.Errorf("%w: passphrase for %q must be 8-63 characters or 64 hex digits", ErrInvalidCredential, c.SSID)
		}
	case AuthWPAEnterprise, AuthWPA2Enterprise:
		if c.Identity == "" {
			return fmt.Errorf("%w: enterprise network %q needs an identity", ErrInvalidCredential, c.SSID)
		}
	}

	if c.Cipher == CipherNotSet && c.AuthType != AuthOpen && c.AuthType != AuthWEP {
		return fmt.Errorf("%w: %s network %q needs a cipher", ErrInvalidCredential, c.AuthType, c.SSID)
	}
	return nil
}

func validWEPKey(k string) bool {
	switch len(k) {
	case 5, 13:
		return true
	case 10, 26:
		return isHex(k)
	}
	return false
}

func validPSK(p string) bool {
	if len(p) == 64 {
		return isHex(p)
	}
	return len(p) >= 8 && len(p) <= 63
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

// Table is an ordered, read-only list of credentials. The zero value is an
// empty table. A Table never changes after NewTable returns, so it may be
// shared between goroutines freely.
type Table struct {
	records []Credential
}

// NewTable copies records into a Table, keeping their order.
func NewTable(records ...Credential) (Table, error) {
	if len(records) > MaxStoredNetworks {
		return Table{}, fmt.Errorf("%w: %d given, max %d", ErrTooManyCredentials, len(records), MaxStoredNetworks)
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	cp := make([]Credential, len(records))
	copy(cp, records)
	return Table{records: cp}, nil
}

// Len returns the number of records
func (t Table) Len() int {
	return len(t.records)
}

// At returns the i-th record in declaration order. It panics if i is out of
// range, like a slice index.
func (t Table) At(i int) Credential {
	return t.records[i]
}

// Records returns a copy of the records in declaration order.
func (t Table) Records() []Credential {
	cp := make([]Credential, len(t.records))
	copy(cp, t.records)
	return cp
}

// All yields index and record in declaration order.
func (t Table) All() iter.Seq2[int, Credential] {
	return func(yield func(int, Credential) bool) {
		for i, c := range t.records {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Contains reports whether a record with the given SSID is present.
func (t Table) Contains(ssid string) bool {
	for _, c := range t.records {
		if c.SSID == ssid {
			return true
		}
	}
	return false
}
