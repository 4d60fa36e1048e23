package version

import (
	"strings"
	"testing"
)

func TestPopulateFromBuildInfo(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	tests := []struct {
		name        string
		settings    map[string]string
		wantVersion string
		wantCommit  string
	}{
		{
			name: "clean checkout",
			settings: map[string]string{
				"vcs.revision": "0123456789abcdef",
				"vcs.time":     "2024-03-05T10:00:00Z",
				"vcs.modified": "false",
			},
			wantVersion: "dev-20240305",
			wantCommit:  "0123456",
		},
		{
			name: "dirty tree",
			settings: map[string]string{
				"vcs.revision": "abc",
				"vcs.modified": "true",
			},
			wantVersion: "",
			wantCommit:  "abc-dirty",
		},
		{
			name:        "no vcs info",
			settings:    nil,
			wantVersion: "",
			wantCommit:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = "", ""
			populateFromBuildInfo(tt.settings)
			if Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", Version, tt.wantVersion)
			}
			if Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", Commit, tt.wantCommit)
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version, Commit = "v1.2.3", "feedbee"
	populateFromBuildInfo(map[string]string{"vcs.revision": "0000000000", "vcs.time": "2024-03-05T10:00:00Z"})
	if Version != "v1.2.3" || Commit != "feedbee" {
		t.Errorf("build info overwrote ldflags values: %s", Full())
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "tasmota-cli/"+Version+" (") {
		t.Errorf("UserAgent() = %q", ua)
	}
}
