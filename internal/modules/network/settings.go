package network

import (
	"github.com/Wifx/gonetworkmanager"
	"github.com/google/uuid"
	"github.com/umeshlumbhani/wifi-creds/internal/models"
)

// ProfilePrefix starts the id of every NetworkManager profile this module
// creates, so a later Provision can find and replace them.
const ProfilePrefix = "wifi-creds-"

// profileNamespace seeds the name based UUIDs of provisioned profiles.
var profileNamespace = uuid.MustParse("5b0b1c52-8d3c-4f43-9a51-7f0e6d0c2a11")

// AttemptOrder returns the records in the order the device firmware tries
// them: last declared first.
func AttemptOrder(t models.Table) []models.Credential {
	recs := t.Records()
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs
}

// ProfileID is the connection id used for ssid.
func ProfileID(ssid string) string {
	return ProfilePrefix + ssid
}

// ProfileUUID is stable for a given ssid.
func ProfileUUID(ssid string) string {
	return uuid.NewSHA1(profileNamespace, []byte(ssid)).String()
}

// ConnectionSettings maps a credential to a NetworkManager profile. priority
// becomes connection.autoconnect-priority. An empty iface leaves the profile
// unbound.
func ConnectionSettings(cred models.Credential, priority int32, iface string) gonetworkmanager.ConnectionSettings {
	connection := make(gonetworkmanager.ConnectionSettings)

	cn := map[string]interface{}{
		"id":                   ProfileID(cred.SSID),
		"uuid":                 ProfileUUID(cred.SSID),
		"type":                 "802-11-wireless",
		"autoconnect":          true,
		"autoconnect-priority": priority,
	}
	if iface != "" {
		cn["interface-name"] = iface
	}

	wl := map[string]interface{}{
		"ssid": []byte(cred.SSID),
		"mode": "infrastructure",
	}

	connection["connection"] = cn
	connection["802-11-wireless"] = wl
	connection["ipv4"] = map[string]interface{}{"method": "auto"}
	connection["ipv6"] = map[string]interface{}{"method": "auto"}

	if cred.AuthType == models.AuthOpen {
		return connection
	}

	wl["security"] = "802-11-wireless-security"
	security := make(map[string]interface{})
	switch cred.AuthType {
	case models.AuthWEP:
		security["key-mgmt"] = "none"
		security["auth-alg"] = "open"
		security["wep-key-type"] = uint32(1)
		security["wep-key0"] = cred.Password
	case models.AuthWPA, models.AuthWPA2:
		security["key-mgmt"] = "wpa-psk"
		security["psk"] = cred.Password
	case models.AuthWPAEnterprise, models.AuthWPA2Enterprise:
		security["key-mgmt"] = "wpa-eap"
		connection["802-1x"] = map[string]interface{}{
			"eap":         []string{"peap"},
			"identity":    cred.Identity,
			"password":    cred.Password,
			"phase2-auth": "mschapv2",
		}
	}

	switch cred.AuthType {
	case models.AuthWPA, models.AuthWPAEnterprise:
		security["proto"] = []string{"wpa"}
	case models.AuthWPA2, models.AuthWPA2Enterprise:
		security["proto"] = []string{"rsn"}
	}

	if suites := cipherSuites(cred.Cipher); suites != nil && cred.AuthType != models.AuthWEP {
		security["pairwise"] = suites
		security["group"] = suites
	}
	connection["802-11-wireless-security"] = security
	return connection
}

func cipherSuites(c models.Cipher) []string {
	switch c {
	case models.CipherAES:
		return []string{"ccmp"}
	case models.CipherTKIP:
		return []string{"tkip"}
	case models.CipherAESTKIP:
		return []string{"ccmp", "tkip"}
	}
	return nil
}
