package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaSafariMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15"
	uaFirefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaEdge          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.61"
	uaOpera         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36 OPR/105.0.0.0"
	uaIPhone        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	uaIPad          = "Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	uaAndroid       = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.43 Mobile Safari/537.36"
	uaLegacyEdge    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/18.19045"
	uaLegacyOpera   = "Opera/9.80 (Windows NT 6.1; U; en) Presto/2.12.388 Version/12.18"
	uaAndroidBare   = "Dalvik/2.1.0 (Android 14; Pixel 8)"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want ClientInfo
	}{
		{"chrome windows", uaChromeWindows, ClientInfo{DeviceDesktop, "Chrome", "Windows"}},
		{"safari mac", uaSafariMac, ClientInfo{DeviceDesktop, "Safari", "macOS"}},
		{"firefox linux", uaFirefoxLinux, ClientInfo{DeviceDesktop, "Firefox", "Linux"}},
		{"chromium edge", uaEdge, ClientInfo{DeviceDesktop, "Chrome", "Windows"}},
		{"chromium opera", uaOpera, ClientInfo{DeviceDesktop, "Chrome", "Windows"}},
		{"legacy edge", uaLegacyEdge, ClientInfo{DeviceDesktop, "Edge", "Windows"}},
		{"legacy opera", uaLegacyOpera, ClientInfo{DeviceDesktop, "Opera", "Windows"}},
		{"iphone", uaIPhone, ClientInfo{DeviceMobile, "Safari", "macOS"}},
		{"ipad", uaIPad, ClientInfo{DeviceTablet, "Safari", "macOS"}},
		{"android", uaAndroid, ClientInfo{DeviceMobile, "Chrome", "Linux"}},
		{"android without linux token", uaAndroidBare, ClientInfo{DeviceMobile, Unknown, "Android"}},
		{"empty", "", ClientInfo{DeviceDesktop, Unknown, Unknown}},
		{"curl", "curl/8.4.0", ClientInfo{DeviceDesktop, Unknown, Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ua))
		})
	}
}

func TestClassifyBrowser_ChromeToken(t *testing.T) {
	assert.Equal(t, "Chrome", ClassifyBrowser("something Chrome/120.0"))
	// first match wins, so a Chromium Edge UA is Chrome
	assert.Equal(t, "Chrome", ClassifyBrowser(uaEdge))
}

func TestClassifyOS_MatchOrder(t *testing.T) {
	assert.Equal(t, "Linux", ClassifyOS(uaAndroid))
	assert.Equal(t, "macOS", ClassifyOS(uaIPhone))
	assert.Equal(t, "iOS", ClassifyOS("iPhone"))
}

func TestClassifyDevice_TabletWinsOverMobile(t *testing.T) {
	// "iPad" together with "Mobile" must still be a tablet.
	assert.Equal(t, DeviceTablet, ClassifyDevice("iPad Mobile iPhone"))
}

func TestNewSessionID_Format(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewSessionID(now)

	assert.Regexp(t, regexp.MustCompile(`^session_1700000000123_[0-9a-z]{9}$`), id)
	assert.NotEqual(t, id, NewSessionID(now))
}
