// Package misc carries build metadata. Values are set by the linker:
//
//	go build -ldflags "-X cssobf/misc.version=1.0.0 -X cssobf/misc.gitHash=$(git rev-parse --short HEAD)"
package misc

var (
	appName = "cssobf"
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
