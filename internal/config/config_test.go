package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
env: "prod"
timezone: "UTC"
operator: "jdoe"
mediasite:
  base_url: "https://ms.example.edu/Mediasite/Api/v1"
  api_key: "k"
  username: "u"
  password: "p"
operators:
  - email: "Desk@Example.edu"
    name: "Desk"
    password_hash: "hash"
`

func TestMustLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := MustLoadPath(path)

	if cfg.Env != "prod" || cfg.Operator != "jdoe" {
		t.Errorf("Env, Operator = %q, %q", cfg.Env, cfg.Operator)
	}
	if cfg.Mediasite.Timeout != 30*time.Second {
		t.Errorf("Mediasite.Timeout = %v, want default 30s", cfg.Mediasite.Timeout)
	}
	if cfg.Jobs.PollInterval != 5*time.Second || cfg.Jobs.MaxAttempts != 360 {
		t.Errorf("Jobs = %+v", cfg.Jobs)
	}
	if cfg.Reports.Format != "XML" {
		t.Errorf("Reports.Format = %q", cfg.Reports.Format)
	}
	if len(cfg.Operators) != 1 || cfg.Operators[0].Name != "Desk" {
		t.Errorf("Operators = %+v", cfg.Operators)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Location() = %v, want UTC", loc)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		zone    string
		want    string
		wantErr bool
	}{
		{zone: "", want: time.Local.String()},
		{zone: "Local", want: time.Local.String()},
		{zone: "Not/AZone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := (&Config{Timezone: tt.zone}).Location()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Location() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && loc.String() != tt.want {
				t.Errorf("Location() = %v, want %v", loc, tt.want)
			}
		})
	}
}
