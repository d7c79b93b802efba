package strings

import (
	"testing"

	kit "dialdesk/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	if got := IfEmpty([]string{"GET"}, []string{"POST"}); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("IfEmpty kept wrong slice: %#v", got)
	}
	if got := IfEmpty(nil, []string{"POST"}); len(got) != 1 || got[0] != "POST" {
		t.Fatalf("IfEmpty default: %#v", got)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()

	if MustString("bulk", "name") != "bulk" {
		t.Fatal("MustString changed input")
	}
	kit.MustPanic(t, func() { MustString("  ", "name") })
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bulk":     "/bulk",
		"/bulk/":   "/bulk",
		" //meta ": "/meta",
		"api/v1":   "/api/v1",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestSQLNull(t *testing.T) {
	t.Parallel()

	if SQLNull("  ") != nil {
		t.Fatal("blank should be nil")
	}
	if SQLNull("a@b.co") != "a@b.co" {
		t.Fatal("value should pass through")
	}
}
