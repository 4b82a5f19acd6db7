// Package version exposes build metadata, set through -ldflags "-X".
package version

//nolint:gochecknoglobals // set at link time
var (
	name    = "sonorium"
	version = "dev"
	commit  = "unknown"
)

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the release version, "dev" for local builds.
func Version() string {
	return version
}

// Commit returns the source revision the binary was built from.
func Commit() string {
	return commit
}
