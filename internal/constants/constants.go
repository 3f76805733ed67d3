package constants

const (
	ConfigDir      = ".scribe"
	ConfigFile     = "config"
	ConfigFileType = "yaml"

	// CacheDirName is the subdirectory under the user cache dir where the
	// persisted tag cache record lives.
	CacheDirName = "scribe"
)
