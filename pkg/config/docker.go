package config

import (
	"os"
	"sync"
)

var (
	dockerOnce sync.Once
	inDocker   bool
)

// IsRunningInDocker reports whether the process is inside a Docker
// container, detected by the /.dockerenv marker file. The result is
// cached after the first call.
func IsRunningInDocker() bool {
	dockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		inDocker = err == nil
	})
	return inDocker
}

// ResolveHostForDocker rewrites localhost addresses to
// host.docker.internal when running inside Docker, so a containerized
// CLI can still reach databases published on the host machine. Any
// other host is returned unchanged.
func ResolveHostForDocker(host string) string {
	if !IsRunningInDocker() {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}
