package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RESUME_ANALYZER_TEST_KEY", " from-env ")

	cases := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{name: "file wins", src: Source{Name: "api key", File: keyFile, Value: "inline", Env: "RESUME_ANALYZER_TEST_KEY"}, expect: "from-file"},
		{name: "inline before env", src: Source{Value: " inline ", Env: "RESUME_ANALYZER_TEST_KEY"}, expect: "inline"},
		{name: "env fallback", src: Source{Env: "RESUME_ANALYZER_TEST_KEY"}, expect: "from-env"},
		{name: "missing file", src: Source{Name: "api key", File: filepath.Join(dir, "nope")}, wantErr: "reading api key from file"},
		{name: "empty file", src: Source{File: emptyFile}, wantErr: "is empty"},
		{name: "unset env", src: Source{Name: "token", Env: "RESUME_ANALYZER_TEST_UNSET"}, wantErr: "set RESUME_ANALYZER_TEST_UNSET"},
		{name: "nothing", src: Source{}, wantErr: "secret is not configured"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Load(tc.src)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}
