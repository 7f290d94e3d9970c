package visitor

import "strings"

// Classify maps a raw User-Agent string to coarse browser and OS
// categories via ordered substring tests; the first match wins.
//
// The order is load-bearing: Chrome-on-Mac strings contain both "Chrome"
// and "Safari" tokens and must classify as Chrome, so the Chrome test
// runs first. Do not reorder.
func Classify(userAgent string) (browser, os string) {
	switch {
	case strings.Contains(userAgent, "Chrome"):
		browser = BrowserChrome
	case strings.Contains(userAgent, "Firefox"):
		browser = BrowserFirefox
	case strings.Contains(userAgent, "Safari"):
		browser = BrowserSafari
	case strings.Contains(userAgent, "Edge"):
		browser = BrowserEdge
	default:
		browser = BrowserOther
	}

	switch {
	case strings.Contains(userAgent, "Windows"):
		os = OSWindows
	case strings.Contains(userAgent, "Mac"):
		os = OSMac
	case strings.Contains(userAgent, "Linux"):
		os = OSLinux
	case strings.Contains(userAgent, "Android"):
		os = OSAndroid
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		os = OSIOS
	default:
		os = OSOther
	}

	return browser, os
}
