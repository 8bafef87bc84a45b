// Package version carries build metadata. BuildDate and GoVersion are set
// with -ldflags "-X github.com/keshon/vexilux/internal/version.BuildDate=...".
package version

const (
	AppName        = "Vexilux"
	AppDescription = "Prefix commands with CLI-style flags for Discord."
)

var (
	BuildDate string // RFC 3339
	GoVersion string
)
