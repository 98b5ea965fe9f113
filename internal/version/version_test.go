package version

import (
	"runtime/debug"
	"testing"
)

func TestVersionIsSet(t *testing.T) {
	t.Parallel()
	if String() == "" {
		t.Fatal("String() must not be empty")
	}
}

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
		want string
	}{
		{"unavailable", nil, false, "dev"},
		{"devel", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true, "dev"},
		{"tagged", &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}}, true, "v0.3.1"},
	}
	for _, tt := range tests {
		if got := fromBuildInfo(tt.info, tt.ok); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
