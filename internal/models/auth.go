package models

import (
	"fmt"
	"strings"
)

// AuthType is the authentication scheme of a stored network. Values follow
// the Particle WLAN_SEC_* enumeration so they can be written straight into
// the firmware header.
type AuthType uint8

// Authentication schemes
const (
	AuthOpen           AuthType = 0
	AuthWEP            AuthType = 1
	AuthWPA            AuthType = 2
	AuthWPA2           AuthType = 3
	AuthWPAEnterprise  AuthType = 4
	AuthWPA2Enterprise AuthType = 5
)

var authNames = []struct {
	auth     AuthType
	firmware string
	aliases  []string
}{
	{AuthOpen, "UNSEC", []string{"open", "none", "unsec", "wlan_sec_unsec"}},
	{AuthWEP, "WEP", []string{"wep", "wlan_sec_wep"}},
	{AuthWPA, "WPA", []string{"wpa", "wlan_sec_wpa"}},
	{AuthWPA2, "WPA2", []string{"wpa2", "wlan_sec_wpa2"}},
	{AuthWPAEnterprise, "WPA_ENTERPRISE", []string{"wpa-enterprise", "wpa_enterprise", "wlan_sec_wpa_enterprise"}},
	{AuthWPA2Enterprise, "WPA2_ENTERPRISE", []string{"wpa2-enterprise", "wpa2_enterprise", "wlan_sec_wpa2_enterprise"}},
}

// ParseAuthType accepts the firmware macro name or a lowercase alias.
func ParseAuthType(s string) (AuthType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range authNames {
		if key == strings.ToLower(n.firmware) {
			return n.auth, nil
		}
		for _, a := range n.aliases {
			if key == a {
				return n.auth, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown auth type %q", s)
}

// Firmware returns the macro the device firmware defines for this scheme.
func (a AuthType) Firmware() string {
	for _, n := range authNames {
		if n.auth == a {
			return n.firmware
		}
	}
	return fmt.Sprintf("%d", uint8(a))
}

// String returns the short lowercase name
func (a AuthType) String() string {
	for _, n := range authNames {
		if n.auth == a {
			return n.aliases[0]
		}
	}
	return fmt.Sprintf("auth(%d)", uint8(a))
}

// Valid reports whether a is one of the known schemes.
func (a AuthType) Valid() bool {
	return a <= AuthWPA2Enterprise
}

// Enterprise reports whether the scheme uses 802.1x.
func (a AuthType) Enterprise() bool {
	return a == AuthWPAEnterprise || a == AuthWPA2Enterprise
}

// MarshalText implements encoding.TextMarshaler
func (a AuthType) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown auth type %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *AuthType) UnmarshalText(text []byte) error {
	v, err := ParseAuthType(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Cipher is the cipher suite of a stored network, following the Particle
// WLAN_CIPHER_* enumeration.
type Cipher uint8

// Cipher suites
const (
	CipherNotSet  Cipher = 0
	CipherAES     Cipher = 1
	CipherTKIP    Cipher = 2
	CipherAESTKIP Cipher = 3
)

var cipherNames = []struct {
	cipher   Cipher
	firmware string
	aliases  []string
}{
	{CipherNotSet, "WLAN_CIPHER_NOT_SET", []string{"", "none", "not-set", "not_set"}},
	{CipherAES, "WLAN_CIPHER_AES", []string{"aes", "ccmp"}},
	{CipherTKIP, "WLAN_CIPHER_TKIP", []string{"tkip"}},
	{CipherAESTKIP, "WLAN_CIPHER_AES_TKIP", []string{"aes+tkip", "aes_tkip", "aes-tkip", "mixed"}},
}

// ParseCipher accepts the firmware macro name or a lowercase alias. An empty
// string parses as CipherNotSet.
func ParseCipher(s string) (Cipher, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range cipherNames {
		if key == strings.ToLower(n.firmware) {
			return n.cipher, nil
		}
		for _, a := range n.aliases {
			if key == a {
				return n.cipher, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown cipher %q", s)
}

// Firmware returns the WLAN_CIPHER_* macro name.
func (c Cipher) Firmware() string {
	for _, n := range cipherNames {
		if n.cipher == c {
			return n.firmware
		}
	}
	return fmt.Sprintf("%d", uint8(c))
}

// String returns the short lowercase name
func (c Cipher) String() string {
	switch c {
	case CipherNotSet:
		return "none"
	case CipherAES:
		return "aes"
	case CipherTKIP:
		return "tkip"
	case CipherAESTKIP:
		return "aes+tkip"
	default:
		return fmt.Sprintf("cipher(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the known suites.
func (c Cipher) Valid() bool {
	return c <= CipherAESTKIP
}

// MarshalText implements encoding.TextMarshaler
func (c Cipher) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown cipher %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Cipher) UnmarshalText(text []byte) error {
	v, err := ParseCipher(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
