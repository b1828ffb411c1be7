package cli

import (
	"strings"
	"testing"
)

func TestCurrentVersionInfo(t *testing.T) {
	info := currentVersionInfo()
	if info.Version == "" {
		t.Error("version is empty")
	}
	if info.GoVersion == "" {
		t.Error("go version is empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("platform %q is not GOOS/GOARCH", info.Platform)
	}
}
