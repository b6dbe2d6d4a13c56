package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetFullVersion_LdflagsWin(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{
			name:    "version only",
			version: "v1.2.3",
			commit:  "abc",
			date:    "unknown",
			want:    "v1.2.3",
		},
		{
			name:    "commit shortened",
			version: "v1.2.3",
			commit:  "0123456789abcdef",
			date:    "unknown",
			want:    "v1.2.3 (0123456)",
		},
		{
			name:    "commit and date",
			version: "v1.2.3",
			commit:  "0123456789abcdef",
			date:    "2024-01-01T00:00:00Z",
			want:    "v1.2.3 (0123456, built 2024-01-01T00:00:00Z)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, tt.date
			if got := GetFullVersion(); got != tt.want {
				t.Errorf("GetFullVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf, "dayzip")
	out := buf.String()
	if !strings.HasPrefix(out, "dayzip version ") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "Package: dayzip") {
		t.Errorf("package line missing: %q", out)
	}
}
