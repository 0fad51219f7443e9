// Package misc keeps build-time information about the program.
package misc

// Set by linker at build time.
var (
	appName = "ebr"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
