package models

import "strings"

// Security describes what an access point advertises in its beacon.
type Security uint32

// Flags for security
const (
	SecurityNone       Security = 0b0000_0000
	SecurityWEP        Security = 0b0000_0001
	SecurityWPA        Security = 0b0000_0010
	SecurityWPA2       Security = 0b0000_0100
	SecurityEnterprise Security = 0b0000_1000
)

// Has reports whether all bits of f are set
func (s Security) Has(f Security) bool {
	return s&f == f
}

// String joins the set flags, e.g. "wpa/wpa2"
func (s Security) String() string {
	if s == SecurityNone {
		return "none"
	}
	var parts []string
	if s.Has(SecurityWEP) {
		parts = append(parts, "wep")
	}
	if s.Has(SecurityWPA) {
		parts = append(parts, "wpa")
	}
	if s.Has(SecurityWPA2) {
		parts = append(parts, "wpa2")
	}
	if s.Has(SecurityEnterprise) {
		parts = append(parts, "enterprise")
	}
	return strings.Join(parts, "/")
}

// AccessPoint is a scanned network as reported over HTTP.
type AccessPoint struct {
	SSID     string `json:"ssid"`
	Security string `json:"security"`
	Strength uint8  `json:"strength"`
	// Known is true when the SSID is in the credential table.
	Known bool `json:"known"`
}
