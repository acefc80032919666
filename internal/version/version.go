package version

import "runtime/debug"

// Version is set at build time with -ldflags.
var Version = "devel"

// `go install github.com/charmbracelet/turbo@latest` leaves Version unset,
// but the module version is still recorded in the build info.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
