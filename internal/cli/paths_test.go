package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "ops.json", "ops"},
		{"", "data/ops.yaml", "data/ops"},
		{"", "", stdinName},
		{"", "-", stdinName},
		{"out.svg", "ops.json", "out"},
		{"out.text", "ops.json", "out"},
		{"out/result", "ops.json", "out/result"},
		{"report.v2", "ops.json", "report.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseGroups(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"0", []int{0}, false},
		{"0, 2,1", []int{0, 2, 1}, false},
		{"a", nil, true},
		{"1,,2", nil, true},
	}
	for _, tt := range tests {
		got, err := parseGroups(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseGroups(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseGroups(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseGroups(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
