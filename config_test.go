package companion

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RetentionSchedule != "0 * * * *" || cfg.SnapshotPrefix != "companion:snapshot:" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{
		"COMPANION_LOG_LEVEL":    "debug",
		"COMPANION_LOG_FORMAT":   "json",
		"COMPANION_SNAPSHOT_TTL": "24h",
		"COMPANION_RANDOM_SEED":  "42",
		"COMPANION_TIMEZONE":     "UTC",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SnapshotTTL != 24*time.Hour || cfg.RandomSeed != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	a, b := cfg.Rand().Float64(), cfg.Rand().Float64()
	if a != b {
		t.Fatal("seeded sources should agree")
	}
	if loc := cfg.Clock()().Location(); loc.String() != "UTC" {
		t.Fatalf("clock location = %s", loc)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"level", map[string]string{"COMPANION_LOG_LEVEL": "loud"}, "COMPANION_LOG_LEVEL"},
		{"format", map[string]string{"COMPANION_LOG_FORMAT": "xml"}, "COMPANION_LOG_FORMAT"},
		{"schedule", map[string]string{"COMPANION_RETENTION_SCHEDULE": "every now and then"}, "COMPANION_RETENTION_SCHEDULE"},
		{"timezone", map[string]string{"COMPANION_TIMEZONE": "Mars/Olympus"}, "COMPANION_TIMEZONE"},
		{"ttl", map[string]string{"COMPANION_CACHE_TTL": "soon"}, "parse env"},
	}
	for _, tt := range tests {
		_, err := ParseConfig(tt.env)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %s", tt.name, err, tt.want)
		}
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(Config{LogLevel: "debug", LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.WithField("component", "Test").Debug("hello")
	if !strings.Contains(buf.String(), `"component":"Test"`) {
		t.Fatalf("json output missing field: %s", buf.String())
	}
	if _, err := NewLogger(Config{LogLevel: "nope"}, nil); err == nil {
		t.Fatal("expected error for bad level")
	}
}
