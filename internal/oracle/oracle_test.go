package oracle_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/courier/internal/oracle"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(oracle.EnvGeminiAPIKey, "from-env")

		cfg := &oracle.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize error: %v", err)
		}
		if cfg.Provider != oracle.ProviderGemini {
			t.Errorf("Provider = %s, want gemini", cfg.Provider)
		}
		if cfg.Model != "gemini-2.5-flash" {
			t.Errorf("Model = %s, want gemini-2.5-flash", cfg.Model)
		}
		if cfg.APIKey != "from-env" {
			t.Errorf("APIKey = %q, want from-env", cfg.APIKey)
		}
		if cfg.TimeoutDuration() != 0 {
			t.Errorf("TimeoutDuration = %v, want 0", cfg.TimeoutDuration())
		}
	})

	t.Run("env provider selects model default", func(t *testing.T) {
		t.Setenv("TEST_ORACLE_PROVIDER", "ollama")
		t.Setenv("TEST_ORACLE_RATE", "2.5")

		cfg := &oracle.Config{}
		env := &oracle.Env{Provider: "TEST_ORACLE_PROVIDER", RateLimit: "TEST_ORACLE_RATE"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize error: %v", err)
		}
		if cfg.Model != "llama3.1" {
			t.Errorf("Model = %s, want llama3.1", cfg.Model)
		}
		if cfg.RateLimit != 2.5 || cfg.Burst != 1 {
			t.Errorf("RateLimit/Burst = %v/%d, want 2.5/1", cfg.RateLimit, cfg.Burst)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &oracle.Config{Provider: "palm"}
		if err := cfg.Finalize(nil); !errors.Is(err, oracle.ErrUnknownProvider) {
			t.Errorf("Finalize error = %v, want ErrUnknownProvider", err)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		cfg := &oracle.Config{Provider: oracle.ProviderOllama, Timeout: "soon"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize error = nil, want invalid timeout")
		}
	})
}

func TestConfigMerge(t *testing.T) {
	base := &oracle.Config{Provider: oracle.ProviderGemini, Model: "a", Timeout: "10s"}
	base.Merge(&oracle.Config{Model: "b", RateLimit: 1})

	if base.Provider != oracle.ProviderGemini || base.Model != "b" || base.RateLimit != 1 || base.Timeout != "10s" {
		t.Errorf("Merge = %+v", base)
	}
}

func TestNew(t *testing.T) {
	t.Run("gemini without key", func(t *testing.T) {
		cfg := &oracle.Config{Provider: oracle.ProviderGemini, Model: "m"}
		if _, err := oracle.New(context.Background(), cfg, discard()); !errors.Is(err, oracle.ErrMissingAPIKey) {
			t.Errorf("New error = %v, want ErrMissingAPIKey", err)
		}
	})

	t.Run("openai without key", func(t *testing.T) {
		cfg := &oracle.Config{Provider: oracle.ProviderOpenAI, Model: "m"}
		if _, err := oracle.New(context.Background(), cfg, discard()); !errors.Is(err, oracle.ErrMissingAPIKey) {
			t.Errorf("New error = %v, want ErrMissingAPIKey", err)
		}
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := &oracle.Config{Provider: oracle.ProviderOllama, Model: "llama3.1", RateLimit: 5, Burst: 1, Timeout: "5s"}
		o, err := oracle.New(context.Background(), cfg, discard())
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		if o == nil {
			t.Fatal("New returned nil oracle")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &oracle.Config{Provider: "palm"}
		if _, err := oracle.New(context.Background(), cfg, discard()); !errors.Is(err, oracle.ErrUnknownProvider) {
			t.Errorf("New error = %v, want ErrUnknownProvider", err)
		}
	})
}

func TestWithRateLimit(t *testing.T) {
	calls := 0
	base := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "ok", nil
	})

	o := oracle.WithRateLimit(base, 0.001, 1)

	if _, err := o.Complete(context.Background(), "first"); err != nil {
		t.Fatalf("first call error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := o.Complete(ctx, "second"); err == nil {
		t.Error("second call error = nil, want rate limit wait error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithTimeout(t *testing.T) {
	slow := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := oracle.WithTimeout(slow, 10*time.Millisecond).Complete(context.Background(), "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

func TestInstrument(t *testing.T) {
	want := errors.New("boom")
	o := oracle.Instrument(oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		return "partial", want
	}), "test")

	out, err := o.Complete(context.Background(), "p")
	if out != "partial" || !errors.Is(err, want) {
		t.Errorf("Complete = (%q, %v), want (partial, boom)", out, err)
	}
}
