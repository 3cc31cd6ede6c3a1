package network

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Wifx/gonetworkmanager"
	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
	"github.com/umeshlumbhani/wifi-creds/internal/models"
)

// ErrDuplicateProfile is returned by Provision when two stored networks would
// share one NetworkManager profile.
var ErrDuplicateProfile = errors.New("duplicate profile")

// SettingsStore is the part of gonetworkmanager.Settings used here
type SettingsStore interface {
	ListConnections() ([]gonetworkmanager.Connection, error)
	AddConnection(settings gonetworkmanager.ConnectionSettings) (gonetworkmanager.Connection, error)
}

// AccessPointLister is the part of gonetworkmanager.DeviceWireless used here
type AccessPointLister interface {
	GetAccessPoints() ([]gonetworkmanager.AccessPoint, error)
}

// Config represent this module
type Config struct {
	Log           *logrus.Logger
	Cfg           models.ConfigHandler
	Table         models.Table
	Settings      SettingsStore
	WifiDevice    AccessPointLister
	WifiInterface string
}

// AccessPoint represents Access point
type AccessPoint struct {
	SSID     string
	Path     dbus.ObjectPath
	Strength uint8
	Security models.Security
}

// NewNetwork connects to NetworkManager over D-Bus. The wireless device is
// only looked up when withDevice is set, provisioning works without one.
func NewNetwork(l *logrus.Logger, cfg models.ConfigHandler, t models.Table, withDevice bool) (*Config, error) {
	settings, err := gonetworkmanager.NewSettings()
	if err != nil {
		err = fmt.Errorf("found error on NewSettings [%s]", err.Error())
		return nil, err
	}
	c := &Config{
		Log:           l,
		Cfg:           cfg,
		Table:         t,
		Settings:      settings,
		WifiInterface: cfg.Fetch().Interface,
	}
	if !withDevice {
		return c, nil
	}

	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		err = fmt.Errorf("found error on NewNetworkManager [%s]", err.Error())
		return nil, err
	}
	wDevice, dInterface, err := getWifiDevice(nm, c.WifiInterface)
	if err != nil {
		return nil, err
	}
	l.Info(fmt.Sprintf("device interface : %s", dInterface))
	c.WifiDevice = wDevice
	c.WifiInterface = dInterface
	return c, nil
}

// Provision replaces the profiles created by an earlier run with one saved
// profile per stored network. Profiles are added in attempt order and the
// last declared network gets the highest autoconnect priority. Nothing is
// activated. A table naming the same SSID twice is refused before any
// existing profile is touched.
func (c *Config) Provision() (added int, err error) {
	iface := c.Cfg.Fetch().Interface
	n := c.Table.Len()
	profiles := make([]gonetworkmanager.ConnectionSettings, 0, n)
	ids := make(map[string]bool, n)
	for k, cred := range AttemptOrder(c.Table) {
		id := ProfileID(cred.SSID)
		if ids[id] {
			err = fmt.Errorf("Provision - %w: ssid %q is listed more than once", ErrDuplicateProfile, cred.SSID)
			c.Log.Error(err.Error())
			return
		}
		ids[id] = true
		profiles = append(profiles, ConnectionSettings(cred, int32(n-1-k), iface))
	}

	removed, err := c.deleteProvisionedProfiles()
	if err != nil {
		c.Log.Error(err.Error())
		return
	}
	if removed > 0 {
		c.Log.Info(fmt.Sprintf("Provision - removed %d old profiles", removed))
	}

	for _, profile := range profiles {
		id := profile["connection"]["id"]
		_, err = c.Settings.AddConnection(profile)
		if err != nil {
			err = fmt.Errorf("Provision - found error on AddConnection for %v [%s]", id, err.Error())
			c.Log.Error(err.Error())
			return
		}
		c.Log.Info(fmt.Sprintf("Provision - added profile %v (priority %v)", id, profile["connection"]["autoconnect-priority"]))
		added++
	}
	return
}

func (c *Config) deleteProvisionedProfiles() (removed int, err error) {
	conns, err := c.Settings.ListConnections()
	if err != nil {
		err = fmt.Errorf("found error on ListConnections - %s", err.Error())
		return
	}
	for _, conn := range conns {
		var sett gonetworkmanager.ConnectionSettings
		sett, err = conn.GetSettings()
		if err != nil {
			err = fmt.Errorf("found error on GetSettings - %s", err.Error())
			return
		}
		id, _ := sett["connection"]["id"].(string)
		if !strings.HasPrefix(id, ProfilePrefix) {
			continue
		}
		err = conn.Delete()
		if err != nil {
			err = fmt.Errorf("deleteProvisionedProfiles - found error on Delete %s - %s", id, err.Error())
			return
		}
		c.Log.Debug(fmt.Sprintf("deleted profile %s", id))
		removed++
	}
	return
}

// GetAccessPoint lists visible access points, strongest first, marking the
// ones present in the credential table.
func (c *Config) GetAccessPoint() (accessPoints []models.AccessPoint, err error) {
	if c.WifiDevice == nil {
		err = errors.New("GetAccessPoint - no wifi device")
		return
	}
	var aps []AccessPoint
	aps, err = c.getAccessPoint()
	if err != nil {
		c.Log.Error(fmt.Sprintf("found error on getAccessPoint [%s]", err.Error()))
		return
	}
	accessPoints = make([]models.AccessPoint, len(aps))
	for i, ap := range aps {
		accessPoints[i] = models.AccessPoint{
			SSID:     ap.SSID,
			Security: ap.Security.String(),
			Strength: ap.Strength,
			Known:    c.Table.Contains(ap.SSID),
		}
	}
	return
}

func (c *Config) getAccessPoint() (ap []AccessPoint, err error) {
	var activeAPoints []gonetworkmanager.AccessPoint
	activeAPoints, err = c.WifiDevice.GetAccessPoints()
	if err != nil {
		return
	}
	var loopErr error
	var tempAP = make(map[string]AccessPoint)
	for _, aPoint := range activeAPoints {
		var ssid string
		var strength uint8
		ssid, loopErr = aPoint.GetPropertySSID()
		if loopErr != nil {
			c.Log.Error(fmt.Sprintf("getAccessPoint - found error on GetPropertySSID - %s", loopErr.Error()))
			continue
		}
		if ssid == "" {
			continue
		}
		strength, loopErr = aPoint.GetPropertyStrength()
		if loopErr != nil {
			c.Log.Error(fmt.Sprintf("getAccessPoint - found error on GetPropertyStrength - %s", loopErr.Error()))
			continue
		}
		var security models.Security
		security, loopErr = getAccessPointSecurity(aPoint)
		if loopErr != nil {
			c.Log.Error(fmt.Sprintf("getAccessPoint - found error on getAccessPointSecurity - %s", loopErr.Error()))
			continue
		}
		// several BSSIDs can share an SSID, keep the strongest
		if prev, ok := tempAP[ssid]; ok && prev.Strength >= strength {
			continue
		}
		tempAP[ssid] = AccessPoint{
			SSID:     ssid,
			Security: security,
			Strength: strength,
			Path:     aPoint.GetPath(),
		}
	}
	for _, a := range tempAP {
		ap = append(ap, a)
	}
	sort.Slice(ap, func(i, j int) bool {
		if ap[i].Strength == ap[j].Strength {
			return ap[i].SSID < ap[j].SSID
		}
		return ap[i].Strength > ap[j].Strength
	})
	return
}

func getWifiDevice(nm gonetworkmanager.NetworkManager, want string) (d gonetworkmanager.DeviceWireless, iface string, err error) {
	devices, err := nm.GetAllDevices()
	if err != nil {
		err = fmt.Errorf("found error on GetAllDevices [%s]", err.Error())
		return
	}

	for _, device := range devices {
		var dType gonetworkmanager.NmDeviceType
		dType, err = device.GetPropertyDeviceType()
		if err != nil {
			err = fmt.Errorf("found error on GetPropertyDeviceType [%s]", err.Error())
			return
		}
		if dType != gonetworkmanager.NmDeviceTypeWifi {
			continue
		}
		var state gonetworkmanager.NmDeviceState
		state, err = device.GetPropertyState()
		if err != nil {
			err = fmt.Errorf("found error on GetPropertyState [%s]", err.Error())
			return
		}
		if state == gonetworkmanager.NmDeviceStateUnmanaged {
			continue
		}
		iface, err = device.GetPropertyInterface()
		if err != nil {
			err = fmt.Errorf("found error on GetPropertyInterface [%s]", err.Error())
			return
		}
		if want != "" && iface != want {
			continue
		}
		d, err = gonetworkmanager.NewDeviceWireless(device.GetPath())
		if err != nil {
			err = fmt.Errorf("found error on getWirelessDevice - NewDeviceWireless [%s]", err.Error())
		}
		return
	}
	err = errors.New("could not find wifi device")
	return
}
