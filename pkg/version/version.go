package version

// Version is the release identifier reported by /api/version.
const Version = "0.1.0"
