package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/clientline/internal/config"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("CLIENTLINE_LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "clients.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertCommand(t *testing.T) {
	input := writeCSV(t, "entityType,forename\nPerson,Jane\nPerson,John\n")
	output := filepath.Join(filepath.Dir(input), "people.jsonl")

	cmd := NewRootCmd(BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"convert", input, "-o", output, "--workers", "2"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got := out.String(); got != "wrote 2 records to "+output+"\n" {
		t.Errorf("stdout = %q", got)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Errorf("output has %d lines; want 2", lines)
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    func(input string) []string
		want    int
	}{
		{
			name:    "Success",
			content: "name\nAcme\n",
			args:    func(in string) []string { return []string{"convert", in} },
			want:    ExitOK,
		},
		{
			name:    "Empty batch",
			content: "city\nLeeds\n",
			args:    func(in string) []string { return []string{"convert", in} },
			want:    ExitEmpty,
		},
		{
			name:    "Bad workers",
			content: "name\nAcme\n",
			args:    func(in string) []string { return []string{"convert", in, "--workers", "0"} },
			want:    ExitError,
		},
		{
			name:    "Missing argument",
			content: "name\nAcme\n",
			args:    func(string) []string { return []string{"convert"} },
			want:    ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeCSV(t, tt.content)
			if got := Execute(BuildInfo{Version: "test"}, tt.args(input)); got != tt.want {
				t.Errorf("Execute() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-v"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := "clientline 1.2.3\ncommit: abc123\nbuilt: 2026-01-01\n"
	if out.String() != want {
		t.Errorf("version output = %q; want %q", out.String(), want)
	}
}
