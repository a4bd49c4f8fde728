package version

// Version is the current version of argo-medallion.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-medallion/internal/version.Version=1.2.3"
var Version = "v0.3.0"

// GetVersion returns the current version of the pipeline binary.
func GetVersion() string {
	return Version
}
