package httpapi

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// fmtHealthLine writes the literal "OK v<version> hash:<sha> features:<f1,f2>
// uptime:<secs>" line named in §6/§4.C, grounded on the teacher's
// MetricsSnapshot idiom of reporting a flat, greppable status line.
func fmtHealthLine(w io.Writer, version, commit string, features []string, started time.Time) {
	uptime := int64(time.Since(started).Seconds())
	fmt.Fprintf(w, "OK v%s hash:%s features:%s uptime:%d\n",
		version, commit, strings.Join(features, ","), uptime)
}
