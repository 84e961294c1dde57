package config

import (
	"testing"

	"github.com/poliscope/poliscope/internal/identity"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != 4000 {
		t.Errorf("expected default port 4000, got %d", cfg.HTTPPort)
	}
	if cfg.DatabaseURL == "" {
		t.Error("expected a default database url")
	}
	if cfg.AutoMatchThreshold != identity.DefaultAutoMatchThreshold {
		t.Errorf("unexpected auto match threshold: %v", cfg.AutoMatchThreshold)
	}
	if cfg.ReviewThreshold != identity.DefaultReviewThreshold {
		t.Errorf("unexpected review threshold: %v", cfg.ReviewThreshold)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("AUTO_MATCH_THRESHOLD", "0.99")
	t.Setenv("REVIEW_THRESHOLD", "0.60")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL", "C123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://test:test@db:5432/test" {
		t.Errorf("unexpected database url: %s", cfg.DatabaseURL)
	}
	if cfg.AutoMatchThreshold != 0.99 {
		t.Errorf("unexpected auto match threshold: %v", cfg.AutoMatchThreshold)
	}
	if cfg.ReviewThreshold != 0.60 {
		t.Errorf("unexpected review threshold: %v", cfg.ReviewThreshold)
	}
	if cfg.SlackBotToken != "xoxb-test" || cfg.SlackChannel != "C123" {
		t.Error("slack settings not picked up")
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("AUTO_MATCH_THRESHOLD", "not-a-float")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != 4000 {
		t.Errorf("invalid port must fall back to default, got %d", cfg.HTTPPort)
	}
	if cfg.AutoMatchThreshold != identity.DefaultAutoMatchThreshold {
		t.Errorf("invalid threshold must fall back to default, got %v", cfg.AutoMatchThreshold)
	}
}

func TestResolverConfig(t *testing.T) {
	t.Setenv("AUTO_MATCH_THRESHOLD", "0.98")
	t.Setenv("REVIEW_THRESHOLD", "0.65")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	rc := cfg.ResolverConfig()
	if rc.AutoMatchThreshold != 0.98 || rc.ReviewThreshold != 0.65 {
		t.Errorf("unexpected resolver config: %+v", rc)
	}
}
