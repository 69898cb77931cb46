// Package sysinfo reports basic facts about the host operating system.
package sysinfo

import (
	"os"
	"runtime"
	"strings"
)

// Info describes the host.
type Info struct {
	OSName       string `json:"os_name"`
	OSRelease    string `json:"os_release"`
	Architecture string `json:"architecture"`
	Hostname     string `json:"hostname"`
}

// Collect gathers host information. Fields that cannot be determined
// are left empty rather than failing the whole call.
func Collect() Info {
	info := Info{
		OSName:       runtime.GOOS,
		OSRelease:    kernelRelease(),
		Architecture: runtime.GOARCH,
	}
	if host, err := os.Hostname(); err == nil {
		info.Hostname = host
	}
	return info
}

// kernelRelease returns the running kernel version on Linux, e.g.
// "6.8.0-45-generic". Other platforms get an empty string.
func kernelRelease() string {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
