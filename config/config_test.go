package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildDSNDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_DATABASE", "")
	t.Setenv("DB_USERNAME", "api")
	t.Setenv("DB_PASSWORD", "secret")

	dsn := buildDSN()
	if !strings.HasPrefix(dsn, "api:secret@tcp(127.0.0.1:3306)/editorial?") {
		t.Fatalf("unexpected DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") {
		t.Fatalf("DSN must enable parseTime: %s", dsn)
	}
}

func TestBuildDSNHonorsEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_DATABASE", "journals")
	t.Setenv("DB_USERNAME", "api")
	t.Setenv("DB_PASSWORD", "secret")

	dsn := buildDSN()
	if !strings.Contains(dsn, "@tcp(db.internal:3307)/journals?") {
		t.Fatalf("unexpected DSN: %s", dsn)
	}
}

func TestLogFilePathHonorsLogDir(t *testing.T) {
	t.Setenv("LOG_DIR", "")
	if got := LogFilePath(); got != filepath.Join("logs", "editorial-api.log") {
		t.Fatalf("unexpected default log path: %s", got)
	}

	t.Setenv("LOG_DIR", "/var/log/editorial")
	if got := LogFilePath(); got != filepath.Join("/var/log/editorial", "editorial-api.log") {
		t.Fatalf("log path must honor LOG_DIR: %s", got)
	}
}

func TestSendMailSkipsEmptyRecipients(t *testing.T) {
	if err := SendMail(nil, "subject", "<p>body</p>"); err != nil {
		t.Fatalf("empty recipient list must be a no-op, got %v", err)
	}
}

func TestSendMailRequiresConfiguredRelay(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")

	err := SendMail([]string{"editor@example.org"}, "subject", "<p>body</p>")
	if err == nil {
		t.Fatalf("unconfigured relay must return an error")
	}
}
