package provider

import (
	"net"
	"net/http"
	"time"
)

// SharedClient is the single process-wide outbound HTTP client every
// adapter proxies through, per the design's "one keep-alive pool shared by
// all adapters" rule — no adapter constructs its own *http.Client.
var SharedClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        256,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
	},
}

// AttemptTimeout bounds a single adapter call. Expiry classifies as
// envelope.Timeout.
const AttemptTimeout = 5 * time.Second
