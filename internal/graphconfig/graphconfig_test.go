package graphconfig

import (
	"os"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("uri: neo4j://localhost:7687\n"), "graphframe.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RelationshipPolicy != "single" {
		t.Errorf("RelationshipPolicy = %q, want single", cfg.RelationshipPolicy)
	}
	if cfg.BatchSize != 1000 {
		t.Errorf("BatchSize = %d, want 1000", cfg.BatchSize)
	}
}

func TestParseConfigMissingURI(t *testing.T) {
	_, err := ParseConfig([]byte("database: prod\n"), "graphframe.yaml")
	if err == nil {
		t.Fatal("expected error for missing uri")
	}
}

func TestParseConfigInvalidRelationshipPolicy(t *testing.T) {
	_, err := ParseConfig([]byte("uri: neo4j://x\nrelationship_policy: maybe\n"), "graphframe.yaml")
	if err == nil {
		t.Fatal("expected error for invalid relationship_policy")
	}
}

func TestParseConfigAuditLogDefaultPath(t *testing.T) {
	cfg, err := ParseConfig([]byte("uri: neo4j://x\naudit_log:\n  enabled: true\n"), "graphframe.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AuditLog.Path != "graphframe_audit.db" {
		t.Errorf("AuditLog.Path = %q, want graphframe_audit.db", cfg.AuditLog.Path)
	}
}

func TestParseConfigEnvOverridesEmptyCredentials(t *testing.T) {
	t.Setenv("GRAPHFRAME_USERNAME", "neo4j")
	t.Setenv("GRAPHFRAME_PASSWORD", "secret")

	cfg, err := ParseConfig([]byte("uri: neo4j://x\n"), "graphframe.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Username != "neo4j" || cfg.Password != "secret" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
}

func TestParseConfigExplicitCredentialsWinOverEnv(t *testing.T) {
	t.Setenv("GRAPHFRAME_USERNAME", "fromenv")

	cfg, err := ParseConfig([]byte("uri: neo4j://x\nusername: fromfile\n"), "graphframe.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Username != "fromfile" {
		t.Errorf("Username = %q, want fromfile", cfg.Username)
	}
}

func TestFindConfigWalksUpToParent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/graphframe.yaml", []byte("uri: neo4j://x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := dir + "/a/b/c"
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == "" {
		t.Fatal("expected to find graphframe.yaml in an ancestor directory")
	}
}

func TestFindConfigReturnsEmptyWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	found, err := FindConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("expected no config found, got %q", found)
	}
}
