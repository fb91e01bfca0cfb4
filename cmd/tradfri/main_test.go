package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/config"
	"github.com/angristan/tradfri-tui/internal/models"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunStatusDemo(t *testing.T) {
	code, out, _ := runCLI(t, "-demo", "status")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	devices := strings.Index(out, "devices:")
	groups := strings.Index(out, "groups:")
	if devices < 0 || groups < 0 || devices > groups {
		t.Fatalf("expected devices before groups, got:\n%s", out)
	}
	for _, want := range []string{"Ceiling Light", "Living Room", "warmth:", "N/A"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q", want)
		}
	}
}

func TestRunValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"power", []string{"-demo", "power", "65537", "dim"}, "valid values: on, off"},
		{"brightness range", []string{"-demo", "brightness", "65537", "0"}, "must be between 1 and 100"},
		{"color", []string{"-demo", "color", "65537", "mauve"}, "'light blue'"},
		{"id", []string{"-demo", "power", "lamp", "on"}, "invalid id value"},
		{"group power", []string{"-demo", "group-power", "131073", "yes"}, "valid values: on, off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI(t, "-demo", "explode")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, `unknown command "explode"`) {
		t.Errorf("stderr = %q", stderr)
	}

	code, _, _ = runCLI(t, "-demo", "power", "65537")
	if code != 2 {
		t.Errorf("missing value exit code = %d, want 2", code)
	}
}

func TestRunColors(t *testing.T) {
	code, out, _ := runCLI(t, "colors")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	for _, p := range models.Palette() {
		if !strings.Contains(out, p.Name) || !strings.Contains(out, "#"+p.Hex) {
			t.Errorf("palette output missing %s", p.Name)
		}
	}
}

func TestRunNoGateway(t *testing.T) {
	code, _, _ := runCLI(t, "status")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestControlCommands(t *testing.T) {
	demo := api.NewDemoGateway()
	cfg := &config.Config{Retry: config.RetryConfig{Attempts: 1}}
	var out bytes.Buffer
	app := &cli{cfg: cfg, stdout: &out, client: demo}
	ctx := context.Background()

	steps := [][]string{
		{"power", "65537", "off"},
		{"brightness", "65538", "40"},
		{"color", "65537", "light", "blue"},
		{"group-brightness", "131074", "10"},
	}
	for _, s := range steps {
		if err := app.dispatch(ctx, s[0], s[1:]); err != nil {
			t.Fatalf("%v: %v", s, err)
		}
	}

	floor, _ := demo.GetDevice(ctx, 65537)
	if floor.LightControl.Power.On() {
		t.Error("Floor Lamp should be off")
	}
	if floor.LightControl.ColorHex == nil || *floor.LightControl.ColorHex != "6c83ba" {
		t.Errorf("Floor Lamp color = %v, want 6c83ba", floor.LightControl.ColorHex)
	}
	tv, _ := demo.GetDevice(ctx, 65538)
	if got := tv.LightControl.BrightnessPct(); got != 40 {
		t.Errorf("TV Bias Light brightness = %d%%, want 40%%", got)
	}
	bedside, _ := demo.GetDevice(ctx, 65539)
	if got := bedside.LightControl.BrightnessPct(); got != 10 {
		t.Errorf("Bedside Left brightness = %d%%, want 10%%", got)
	}
}

func TestColorOnWhiteSpectrumBulb(t *testing.T) {
	app := &cli{cfg: &config.Config{}, stdout: &bytes.Buffer{}, client: api.NewDemoGateway()}

	err := app.dispatch(context.Background(), "color", []string{"65536", "lime"})
	var capErr *api.CapabilityError
	if !errors.As(err, &capErr) || capErr.DeviceID != 65536 {
		t.Fatalf("err = %v, want CapabilityError for 65536", err)
	}

	// Canonical colors work on every bulb
	if err := app.dispatch(context.Background(), "color", []string{"65536", "warm"}); err != nil {
		t.Errorf("warm on white spectrum bulb: %v", err)
	}
}

func TestDeviceLineBrightness(t *testing.T) {
	tests := []struct {
		name string
		lc   *models.LightControl
		want string
	}{
		{"reported", &models.LightControl{Brightness: 127, Power: models.PowerOn}, "brightness: 127"},
		{"reported zero", &models.LightControl{Brightness: 0, Power: models.PowerOff}, "brightness: 0  "},
		{"unreported", &models.LightControl{BrightnessUnknown: true, Power: models.PowerOn}, "brightness: N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := deviceLine(&models.Device{ID: 65540, Name: "Porch", LightControl: tt.lc})
			if !strings.Contains(line, tt.want) {
				t.Errorf("deviceLine() = %q, want it to contain %q", line, tt.want)
			}
		})
	}
}
