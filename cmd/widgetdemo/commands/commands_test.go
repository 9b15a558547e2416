package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/livefir/widgetdemo/cmd/widgetdemo/internal/ui"
	"github.com/livefir/widgetdemo/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{config.EnvAddr, config.EnvPort, config.EnvDev} {
		t.Setenv(name, "")
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{name: "empty", args: nil, want: options{}},
		{name: "separate values", args: []string{"--config", "a.yaml", "--addr", ":9000"}, want: options{configPath: "a.yaml", addr: ":9000"}},
		{name: "equals form", args: []string{"--config=a.yaml", "--addr=:9001", "--dev"}, want: options{configPath: "a.yaml", addr: ":9001", dev: true}},
		{name: "short config", args: []string{"-c", "b.yaml"}, want: options{configPath: "b.yaml"}},
		{name: "dev false", args: []string{"--dev=false"}, want: options{}},
		{name: "positional", args: []string{"show"}, want: options{rest: []string{"show"}}},
		{name: "missing value", args: []string{"--addr"}, wantErr: true},
		{name: "unknown flag", args: []string{"--port", "80"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadServeConfigFlagsWin(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvAddr, ":7000")
	path := filepath.Join(t.TempDir(), "w.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadServeConfig([]string{"--config", path, "--addr", ":8000", "--dev"})
	if err != nil {
		t.Fatalf("loadServeConfig() error = %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Errorf("Addr = %q, want :8000", cfg.Addr)
	}
	if !cfg.DevMode {
		t.Error("--dev should enable dev mode")
	}

	cfg, err = loadServeConfig([]string{"--config", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want the environment override :7000", cfg.Addr)
	}
}

func TestLoadServeConfigRejectsExtraArgs(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	if _, err := loadServeConfig([]string{"now"}); err == nil {
		t.Error("expected an error for a positional argument")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "conf", "widgetdemo.yaml")

	var out bytes.Buffer
	if err := Config([]string{"init", "--config", path}, &out); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("init output = %q", out.String())
	}
	if err := Config([]string{"init", "--config", path}, &out); err == nil {
		t.Error("second init should refuse to overwrite")
	}

	out.Reset()
	if err := Config([]string{"show", "--config", path}, &out); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"8080", "steps: 100", "expanded_panels:", "F63366"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("config show missing %q:\n%s", want, out.String())
		}
	}
}

func TestConfigUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := Config(nil, &out); err == nil {
		t.Error("expected an error without a subcommand")
	}
	if err := Config([]string{"edit"}, &out); err == nil {
		t.Error("expected an error for an unknown subcommand")
	}
}

func TestPanels(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	if err := Panels(nil, &out); err != nil {
		t.Fatalf("Panels() error = %v", err)
	}
	for _, name := range config.Panels {
		if !strings.Contains(out.String(), name) {
			t.Errorf("listing missing %q", name)
		}
	}
}

func TestPickSavesSelection(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	old := pickFunc
	t.Cleanup(func() { pickFunc = old })
	pickFunc = func(cfg *config.Config) ([]string, error) {
		return []string{"data", "charts"}, nil
	}

	var out bytes.Buffer
	if err := Pick(nil, &out); err != nil {
		t.Fatalf("Pick() error = %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("saved config does not load: %v", err)
	}
	if want := []string{"data", "charts"}; !reflect.DeepEqual(cfg.ExpandedPanels, want) {
		t.Errorf("ExpandedPanels = %v, want %v", cfg.ExpandedPanels, want)
	}
}

func TestPickCancelled(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	old := pickFunc
	t.Cleanup(func() { pickFunc = old })
	pickFunc = func(cfg *config.Config) ([]string, error) {
		return nil, ui.ErrCancelled
	}

	var out bytes.Buffer
	if err := Pick(nil, &out); err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); !os.IsNotExist(err) {
		t.Error("a cancelled pick should not write the config file")
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("output = %q", out.String())
	}
}
