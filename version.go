package asynclog

// Version information. VersionNumber packs the components into a single
// comparable integer, one byte per component.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
	VersionBuild = 1

	VersionString = "1.0.0.1"
	VersionNumber = VersionMajor<<24 | VersionMinor<<16 | VersionPatch<<8 | VersionBuild
)

// Version returns the library version string.
func Version() string {
	return VersionString
}
