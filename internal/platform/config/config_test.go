package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "dialdesk/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	bulk := New().Prefix("BULK_")
	if got := bulk.key("MAX_IDS"); got != "BULK_MAX_IDS" {
		t.Fatalf("key() = %q, want %q", got, "BULK_MAX_IDS")
	}
	if got := bulk.Prefix("PHONE_").key("REGION"); got != "BULK_PHONE_REGION" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_PGSQL_")
	t.Setenv("SERVICE_PGSQL_DBURL", "  postgres://x ")
	if got := c.MustString("DBURL"); got != "postgres://x" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_NAME", " dialdesk ")
	t.Setenv("T_N", "42")
	t.Setenv("T_BADN", "x")
	t.Setenv("T_ON", "true")
	t.Setenv("T_BADB", "maybe")
	t.Setenv("T_DUR", "250ms")
	t.Setenv("T_BADDUR", "soon")

	if got := c.MayString("NAME", "x"); got != "dialdesk" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("NOPE", "x"); got != "x" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("N", 1); got != 42 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BADN", 7); got != 7 {
		t.Fatalf("MayInt invalid = %d", got)
	}
	if !c.MayBool("ON", false) || !c.MayBool("BADB", true) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BADDUR", time.Second); got != time.Second {
		t.Fatalf("MayDuration invalid = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORE_API_")
	t.Setenv("CORE_API_CORS_ORIGINS", " https://a.example , ,https://b.example ")
	got := c.MayCSV("CORS_ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("MayCSV = %#v", got)
	}
	t.Setenv("CORE_API_EMPTY", " , ")
	if got := c.MayCSV("EMPTY", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV default = %#v", got)
	}
}

func TestParseBytes(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"10MiB", 10 << 20, true},
		{"10 mib", 10 << 20, true},
		{"512KB", 512000, true},
		{"2k", 2048, true},
		{"1048576", 1 << 20, true},
		{"1gb", 1000000000, true},
		{"0", 0, false},
		{"-5MiB", 0, false},
		{"lots", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseBytes(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseBytes(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}

	c := New().Prefix("BULK_")
	t.Setenv("BULK_MAX_UPLOAD", "bogus")
	if got := c.MayBytes("MAX_UPLOAD", 99); got != 99 {
		t.Fatalf("MayBytes invalid = %d", got)
	}
	t.Setenv("BULK_MAX_UPLOAD", "1MiB")
	if got := c.MayBytes("MAX_UPLOAD", 99); got != 1<<20 {
		t.Fatalf("MayBytes = %d", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".env")
	if err := os.WriteFile(f, []byte("DOTENV_PROBE_A=from-file\nDOTENV_PROBE_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_PROBE_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_PROBE_A") })

	if n := LoadDotEnv(filepath.Join(dir, "missing.env"), f); n != 1 {
		t.Fatalf("LoadDotEnv loaded %d files, want 1", n)
	}
	if got := os.Getenv("DOTENV_PROBE_A"); got != "from-file" {
		t.Fatalf("DOTENV_PROBE_A = %q", got)
	}
	if got := os.Getenv("DOTENV_PROBE_B"); got != "from-env" {
		t.Fatalf("existing env overwritten: %q", got)
	}
	if n := LoadDotEnv(filepath.Join(dir, "nope")); n != 0 {
		t.Fatalf("missing files should load 0, got %d", n)
	}
}
