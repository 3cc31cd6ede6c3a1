package network

import (
	"fmt"

	"github.com/Wifx/gonetworkmanager"
	"github.com/umeshlumbhani/wifi-creds/internal/models"
)

// NM80211ApFlags / NM80211ApSecurityFlags bits read from an access point
const (
	apFlagsPrivacy    uint32 = 0x0000_0001
	apSecNone         uint32 = 0x0000_0000
	apSecKeyMgmt8021X uint32 = 0x0000_0200
)

func getAccessPointSecurity(ap gonetworkmanager.AccessPoint) (security models.Security, err error) {
	var flag, wpaFlag, rsnFlag uint32

	flag, err = ap.GetPropertyFlags()
	if err != nil {
		err = fmt.Errorf("found error on getting flags [%s]", err.Error())
		return
	}
	wpaFlag, err = ap.GetPropertyWPAFlags()
	if err != nil {
		err = fmt.Errorf("found error on getting wpa flags [%s]", err.Error())
		return
	}
	rsnFlag, err = ap.GetPropertyRSNFlags()
	if err != nil {
		err = fmt.Errorf("found error on getting rsn flags [%s]", err.Error())
		return
	}
	return classify(flag, wpaFlag, rsnFlag), nil
}

func classify(flag, wpaFlag, rsnFlag uint32) models.Security {
	security := models.SecurityNone
	if flag&apFlagsPrivacy == apFlagsPrivacy && wpaFlag == apSecNone && rsnFlag == apSecNone {
		security |= models.SecurityWEP
	}
	if wpaFlag != apSecNone {
		security |= models.SecurityWPA
	}
	if rsnFlag != apSecNone {
		security |= models.SecurityWPA2
	}
	if wpaFlag&apSecKeyMgmt8021X == apSecKeyMgmt8021X || rsnFlag&apSecKeyMgmt8021X == apSecKeyMgmt8021X {
		security |= models.SecurityEnterprise
	}
	return security
}
