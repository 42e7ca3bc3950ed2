package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/diffdrive/internal/drivetrain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if diff := cmp.Diff(drivetrain.DefaultConfig(), cfg.Drivetrain()); diff != "" {
		t.Errorf("default drivetrain config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Start.Heading != 90 {
		t.Errorf("expected start heading 90, got %f", cfg.Start.Heading)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	profile := []byte(`
name: practice
controller:
  drive: {kp: 5, kd: 0.1}
  period: 20ms
geometry:
  gearing: 1.4
sensors:
  imu: false
  lateral_offset: -2.5
`)
	if err := os.WriteFile(path, profile, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := DefaultConfig()
	want.Name = "practice"
	want.Controller.Drive.KP = 5
	want.Controller.Drive.KD = 0.1
	want.Controller.Period = 20 * time.Millisecond
	want.Geometry.Gearing = 1.4
	want.Sensors.IMU = false
	want.Sensors.LateralOffset = -2.5

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if pc := cfg.PlantConfig(); pc.HasIMU || pc.LateralOffset != -2.5 || pc.Gearing != 1.4 {
		t.Errorf("plant config not derived from profile: %+v", pc)
	}
}

func TestLoadRejectsInvalidGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("geometry:\n  gearing: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, drivetrain.ErrInvalidConfig) {
		t.Errorf("Load() = %v, want ErrInvalidConfig", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tao.yaml")
	want := GetPreset("tao")
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bench")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Geometry.Gearing != 0.6 || cfg.Controller.TurnTolerance != 3.0 {
		t.Errorf("unexpected bench geometry: %+v", cfg.Geometry)
	}

	cfg.Geometry.Gearing = 9
	if Presets["bench"].Geometry.Gearing != 0.6 {
		t.Error("GetPreset returned a shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	if diff := cmp.Diff([]string{"bench", "tao"}, ListPresets()); diff != "" {
		t.Errorf("ListPresets mismatch (-want +got):\n%s", diff)
	}
}
