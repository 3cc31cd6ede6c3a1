package models

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homeOffice() []Credential {
	return []Credential{
		{SSID: "Home", Password: "secret1!", AuthType: AuthWPA2, Cipher: CipherAES},
		{SSID: "Office", Password: "secret2!", AuthType: AuthWPA2, Cipher: CipherAES},
	}
}

func TestNewTable_PreservesOrder(t *testing.T) {
	tbl, err := NewTable(homeOffice()...)
	require.NoError(t, err)

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Home", tbl.At(0).SSID)
	assert.Equal(t, "Office", tbl.At(1).SSID)

	var seen []string
	for _, c := range tbl.All() {
		seen = append(seen, c.SSID)
	}
	assert.Equal(t, []string{"Home", "Office"}, seen)
	assert.Equal(t, homeOffice(), tbl.Records())
}

func TestNewTable_Empty(t *testing.T) {
	tbl, err := NewTable()
	require.NoError(t, err)

	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Records())
	for range tbl.All() {
		t.Fatal("empty table yielded a record")
	}

	var zero Table
	assert.Equal(t, 0, zero.Len())
}

func TestNewTable_TooMany(t *testing.T) {
	recs := make([]Credential, MaxStoredNetworks+1)
	_, err := NewTable(recs...)
	require.ErrorIs(t, err, ErrTooManyCredentials)

	_, err = NewTable(recs[:MaxStoredNetworks]...)
	require.NoError(t, err)
}

func TestTable_Immutable(t *testing.T) {
	in := homeOffice()
	tbl, err := NewTable(in...)
	require.NoError(t, err)

	in[0].SSID = "changed"
	out := tbl.Records()
	out[1].SSID = "changed too"

	assert.Equal(t, "Home", tbl.At(0).SSID)
	assert.Equal(t, "Office", tbl.At(1).SSID)
}

func TestTable_AllStopsEarly(t *testing.T) {
	tbl, err := NewTable(homeOffice()...)
	require.NoError(t, err)

	n := 0
	for range tbl.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestTable_ConcurrentReads(t *testing.T) {
	tbl, err := NewTable(homeOffice()...)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, c := range tbl.All() {
				_ = c.SSID
			}
			assert.True(t, tbl.Contains("Office"))
		}()
	}
	wg.Wait()
}

func TestCredential_Validate(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		ok   bool
	}{
		{"wpa2", Credential{SSID: "Home", Password: "password", AuthType: AuthWPA2, Cipher: CipherAES}, true},
		{"wpa tkip", Credential{SSID: "Old", Password: "password", AuthType: AuthWPA, Cipher: CipherTKIP}, true},
		{"hex psk", Credential{SSID: "Hex", Password: strings.Repeat("ab", 32), AuthType: AuthWPA2, Cipher: CipherAESTKIP}, true},
		{"open", Credential{SSID: "Cafe", AuthType: AuthOpen}, true},
		{"wep ascii", Credential{SSID: "Attic", Password: "abcde", AuthType: AuthWEP}, true},
		{"wep hex", Credential{SSID: "Attic", Password: "0123456789", AuthType: AuthWEP}, true},
		{"enterprise", Credential{SSID: "Corp", Password: "pw", Identity: "alice", AuthType: AuthWPA2Enterprise, Cipher: CipherAES}, true},
		{"empty ssid", Credential{Password: "password", AuthType: AuthWPA2, Cipher: CipherAES}, false},
		{"long ssid", Credential{SSID: strings.Repeat("x", MaxSSIDLength+1), AuthType: AuthOpen}, false},
		{"max ssid", Credential{SSID: strings.Repeat("x", MaxSSIDLength), AuthType: AuthOpen}, true},
		{"short psk", Credential{SSID: "Home", Password: "short", AuthType: AuthWPA2, Cipher: CipherAES}, false},
		{"bad hex psk", Credential{SSID: "Home", Password: strings.Repeat("zz", 32), AuthType: AuthWPA2, Cipher: CipherAES}, false},
		{"open with password", Credential{SSID: "Cafe", Password: "password", AuthType: AuthOpen}, false},
		{"wep bad length", Credential{SSID: "Attic", Password: "abcdef", AuthType: AuthWEP}, false},
		{"enterprise no identity", Credential{SSID: "Corp", Password: "pw", AuthType: AuthWPAEnterprise, Cipher: CipherAES}, false},
		{"wpa2 no cipher", Credential{SSID: "Home", Password: "password", AuthType: AuthWPA2}, false},
		{"unknown auth", Credential{SSID: "Home", AuthType: AuthType(9)}, false},
		{"unknown cipher", Credential{SSID: "Home", AuthType: AuthOpen, Cipher: Cipher(9)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cred.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidCredential)
			}
		})
	}
}
