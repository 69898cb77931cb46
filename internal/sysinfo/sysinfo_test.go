package sysinfo_test

import (
	"runtime"
	"testing"

	"github.com/aretw0/espalier/internal/sysinfo"
	"github.com/stretchr/testify/assert"
)

func TestCollect(t *testing.T) {
	info := sysinfo.Collect()

	assert.Equal(t, runtime.GOOS, info.OSName)
	assert.Equal(t, runtime.GOARCH, info.Architecture)

	if runtime.GOOS == "linux" {
		assert.NotEmpty(t, info.OSRelease, "kernel release should be readable on linux")
	}
}
