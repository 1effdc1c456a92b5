package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/courier/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"driver", cfg.Driver, database.DriverSQLite},
		{"path", cfg.Path, "courier.db"},
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "postgres")
	t.Setenv("TEST_DB_HOST", "remotehost")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_PASSWORD", "envpass")
	t.Setenv("TEST_DB_MAX_OPEN", "50")
	t.Setenv("TEST_DB_TIMEOUT", "10s")

	env := &database.Env{
		Driver:       "TEST_DB_DRIVER",
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		Name:         "TEST_DB_NAME",
		User:         "TEST_DB_USER",
		Password:     "TEST_DB_PASSWORD",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
		ConnTimeout:  "TEST_DB_TIMEOUT",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"driver", cfg.Driver, database.DriverPostgres},
		{"host", cfg.Host, "remotehost"},
		{"port", cfg.Port, 5433},
		{"name", cfg.Name, "envdb"},
		{"user", cfg.User, "envuser"},
		{"password", cfg.Password, "envpass"},
		{"max_open_conns", cfg.MaxOpenConns, 50},
		{"conn_timeout", cfg.ConnTimeout, "10s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{
			name:    "unsupported driver",
			cfg:     database.Config{Driver: "oracle"},
			wantErr: "unsupported driver",
		},
		{
			name:    "postgres missing name",
			cfg:     database.Config{Driver: database.DriverPostgres, User: "courier"},
			wantErr: "name required",
		},
		{
			name:    "postgres missing user",
			cfg:     database.Config{Driver: database.DriverPostgres, Name: "courier"},
			wantErr: "user required",
		},
		{
			name:    "invalid conn_max_lifetime",
			cfg:     database.Config{ConnMaxLifetime: "bad"},
			wantErr: "invalid conn_max_lifetime",
		},
		{
			name:    "invalid conn_timeout",
			cfg:     database.Config{ConnTimeout: "bad"},
			wantErr: "invalid conn_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{
		Driver: database.DriverSQLite,
		Path:   "base.db",
		Port:   5432,
		User:   "baseuser",
	}

	overlay := database.Config{
		Driver: database.DriverPostgres,
		Host:   "remotehost",
		Name:   "overlaydb",
	}

	base.Merge(&overlay)

	if base.Driver != database.DriverPostgres {
		t.Errorf("driver = %s, want postgres", base.Driver)
	}
	if base.Host != "remotehost" {
		t.Errorf("host = %s, want remotehost", base.Host)
	}
	if base.Path != "base.db" {
		t.Errorf("path = %s, want base.db preserved", base.Path)
	}
	if base.User != "baseuser" {
		t.Errorf("user = %s, want baseuser preserved", base.User)
	}
}

func TestDsn(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		cfg := database.Config{
			Driver:   database.DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			Name:     "courier",
			User:     "courier",
			Password: "secret",
			SSLMode:  "disable",
		}

		want := "host=localhost port=5432 dbname=courier user=courier password=secret sslmode=disable"
		if got := cfg.Dsn(); got != want {
			t.Errorf("Dsn() = %s, want %s", got, want)
		}
		if cfg.DriverName() != "pgx" {
			t.Errorf("DriverName() = %s, want pgx", cfg.DriverName())
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := database.Config{Driver: database.DriverSQLite, Path: "/tmp/ledger.db"}

		got := cfg.Dsn()
		if !strings.HasPrefix(got, "file:/tmp/ledger.db?") {
			t.Errorf("Dsn() = %s, want file:/tmp/ledger.db?...", got)
		}
		if !strings.Contains(got, "busy_timeout") {
			t.Errorf("Dsn() = %s, want busy_timeout pragma", got)
		}
		if cfg.DriverName() != "sqlite" {
			t.Errorf("DriverName() = %s, want sqlite", cfg.DriverName())
		}
	})
}

func TestDurationParsers(t *testing.T) {
	cfg := database.Config{
		ConnMaxLifetime: "15m",
		ConnTimeout:     "5s",
	}

	if d := cfg.ConnMaxLifetimeDuration(); d != 15*time.Minute {
		t.Errorf("conn_max_lifetime = %v, want 15m", d)
	}
	if d := cfg.ConnTimeoutDuration(); d != 5*time.Second {
		t.Errorf("conn_timeout = %v, want 5s", d)
	}
}
