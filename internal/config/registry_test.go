package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	if r.Version != 1 {
		t.Errorf("Version = %d, want 1", r.Version)
	}
	if r.Preferences.DiscoverTimeout != 3 {
		t.Errorf("DiscoverTimeout = %d, want 3", r.Preferences.DiscoverTimeout)
	}
	if r.Preferences.DefaultPort != 9999 {
		t.Errorf("DefaultPort = %d, want 9999", r.Preferences.DefaultPort)
	}
}

func TestRememberResolveForget(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Resolve("desk"); ok {
		t.Error("Resolve on empty registry should fail")
	}

	r.Remember("desk", "192.168.0.10:9999", "HS100(UK)", "8006A1B2")

	addr, ok := r.Resolve("desk")
	if !ok || addr != "192.168.0.10:9999" {
		t.Errorf("Resolve() = %q, %v, want saved address", addr, ok)
	}

	// Re-remembering updates the record in place.
	r.Remember("desk", "192.168.0.99:9999", "HS100(UK)", "8006A1B2")
	if addr, _ := r.Resolve("desk"); addr != "192.168.0.99:9999" {
		t.Errorf("Resolve() after update = %q", addr)
	}

	if !r.Forget("desk") {
		t.Error("Forget should report a removed entry")
	}
	if r.Forget("desk") {
		t.Error("Forget twice should report absence")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	r := NewRegistry()
	r.Remember("boiler", "192.168.0.20:9999", "HS110(EU)", "8006FFEE")
	r.Preferences.DiscoverTimeout = 10

	if err := r.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}

	addr, ok := loaded.Resolve("boiler")
	if !ok || addr != "192.168.0.20:9999" {
		t.Errorf("loaded Resolve() = %q, %v", addr, ok)
	}
	if loaded.Preferences.DiscoverTimeout != 10 {
		t.Errorf("loaded DiscoverTimeout = %d, want 10", loaded.Preferences.DiscoverTimeout)
	}
	if loaded.Devices["boiler"].Model != "HS110(EU)" {
		t.Errorf("loaded Model = %q", loaded.Devices["boiler"].Model)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}
	if len(loaded.Devices) != 0 {
		t.Errorf("fresh registry has %d devices", len(loaded.Devices))
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, appName, configFile)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("version: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRegistryFromDisk(); err == nil {
		t.Error("loadRegistryFromDisk() should reject unsupported versions")
	}
}
