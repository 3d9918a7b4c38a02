package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curator/internal/config"
	"curator/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("OMDB_API_KEY", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg, "")
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, extra string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q
output_dir = %q
lookup_file = %q
whitelist_file = %q
canon_file = %q
rules_file = %q

[tmdb]
enabled = %t
base_url = %q

[logging]
level = "error"
%s`,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Paths.OutputDir,
		cfg.Paths.LookupFile,
		cfg.Paths.WhitelistFile,
		cfg.Paths.CanonFile,
		cfg.Paths.RulesFile,
		cfg.TMDB.Enabled,
		cfg.TMDB.BaseURL,
		extra,
	)
	if cfg.TMDB.Enabled {
		content = strings.Replace(content, "[tmdb]\n", "[tmdb]\napi_key = \"test\"\n", 1)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
