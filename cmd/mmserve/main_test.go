package main

import "testing"

func TestEnvOr(t *testing.T) {
	t.Setenv("MMSERVE_TEST_KEY", "set")
	if got := envOr("MMSERVE_TEST_KEY", "def"); got != "set" {
		t.Fatalf("got %q", got)
	}
	if got := envOr("MMSERVE_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := buildRootCmd()
	want := map[string]bool{"serve": false, "version": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}
