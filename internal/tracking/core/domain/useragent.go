package domain

import "regexp"

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"

	Unknown = "Unknown"
)

type ClientInfo struct {
	DeviceType string
	Browser    string
	OS         string
}

type uaRule struct {
	label   string
	pattern *regexp.Regexp
}

// Rules are evaluated in order and the first match wins. The order is part of
// the stored data contract: Edge and Opera UAs that also carry a Chrome token
// classify as Chrome, Android as Linux and iOS as macOS.
var browserRules = []uaRule{
	{"Chrome", regexp.MustCompile(`Chrome/[0-9.]+`)},
	{"Firefox", regexp.MustCompile(`Firefox/[0-9.]+`)},
	{"Safari", regexp.MustCompile(`Safari/[0-9.]+`)},
	{"Edge", regexp.MustCompile(`Edge/[0-9.]+`)},
	{"Opera", regexp.MustCompile(`Opera/[0-9.]+`)},
}

var osRules = []uaRule{
	{"Windows", regexp.MustCompile(`Windows`)},
	{"macOS", regexp.MustCompile(`Mac OS X`)},
	{"Linux", regexp.MustCompile(`Linux`)},
	{"Android", regexp.MustCompile(`Android`)},
	{"iOS", regexp.MustCompile(`iPhone|iPad`)},
}

var deviceRules = []uaRule{
	{DeviceTablet, regexp.MustCompile(`iPad`)},
	{DeviceMobile, regexp.MustCompile(`Mobile|Android|iPhone`)},
}

func firstMatch(rules []uaRule, ua, fallback string) string {
	for _, r := range rules {
		if r.pattern.MatchString(ua) {
			return r.label
		}
	}
	return fallback
}

func ClassifyBrowser(ua string) string { return firstMatch(browserRules, ua, Unknown) }

func ClassifyOS(ua string) string { return firstMatch(osRules, ua, Unknown) }

func ClassifyDevice(ua string) string { return firstMatch(deviceRules, ua, DeviceDesktop) }

func Classify(ua string) ClientInfo {
	return ClientInfo{
		DeviceType: ClassifyDevice(ua),
		Browser:    ClassifyBrowser(ua),
		OS:         ClassifyOS(ua),
	}
}
