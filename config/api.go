package config

// GetAuthSkipperPaths lists /api route paths served without credentials.
// AUTH_SKIP_PATHS (comma-separated) adds to the defaults.
func GetAuthSkipperPaths() []string {
	paths := []string{"/api/units/:unit/compatible"}
	return append(paths, splitList(GetEnv("AUTH_SKIP_PATHS", ""))...)
}
