package version

import (
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch form", info.Platform)
	}
}

func TestStringShortensCommit(t *testing.T) {
	info := Info{
		Version: "1.2.3",
		Commit:  "0123456789abcdef",
		Date:    "2026-01-01",
	}
	s := info.String()
	if !strings.Contains(s, "01234567") {
		t.Errorf("String() = %q, want shortened commit", s)
	}
	if strings.Contains(s, "0123456789abcdef") {
		t.Errorf("String() = %q, commit not shortened", s)
	}
}

func TestShort(t *testing.T) {
	if got := (Info{Version: "2.0.0"}).Short(); got != "2.0.0" {
		t.Errorf("Short() = %q, want 2.0.0", got)
	}
}
