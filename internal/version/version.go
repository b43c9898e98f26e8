package version

// Build information, set with -ldflags at release time
var (
	Version     = "dev"
	GitHash     = "dev"
	GoBuildEnv  = "dev"
	GoBuildTime = "dev"
)
