// Package version carries the build version reported by `gosh version`
// and sent in the default User-Agent header.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/gosh/version.Version=1.0.0"
package version
