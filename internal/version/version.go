package version

// Values set at build time with ldflags
var (
	Version     = "dev"
	GitHash     = ""
	GoBuildEnv  = ""
	GoBuildTime = ""
)
