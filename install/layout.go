package install

// Layout names the artifacts a RefPerSys installation directory must hold,
// relative to the directory itself.
type Layout struct {
	Executable string
	Header     string
	License    string
	Manifest   string
	DataDir    string
	DataExt    string // suffix of persisted data files, including the dot
}

// Markers checked inside the installation artifacts.
const (
	HeaderBanner     = "/****"
	LicenseMarker    = "www.gnu.org/licenses"
	LicenseLineLimit = 64
	ManifestMarker   = "//!! GENERATED file rps_manifest.json / DO NOT EDIT!"

	// MaxLineLen is the number of bytes of a line that the checks look at.
	// Longer lines are cut, never rejected for their length.
	MaxLineLen = 4096
)

// DefaultLayout returns the layout of a RefPerSys source and build tree.
func DefaultLayout() Layout {
	return Layout{
		Executable: "refpersys",
		Header:     "refpersys.hh",
		License:    "LICENSE",
		Manifest:   "rps_manifest.json",
		DataDir:    "persistore",
		DataExt:    ".json",
	}
}
