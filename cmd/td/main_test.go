package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "td dev") {
		t.Errorf("expected output to contain 'td dev', got: %s", out)
	}
	if !strings.Contains(out, "commit: none") {
		t.Errorf("expected output to contain 'commit: none', got: %s", out)
	}
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "td 1.0.0") {
		t.Errorf("expected output to contain 'td 1.0.0', got: %s", out)
	}
	if !strings.Contains(out, "built: 2026-01-01") {
		t.Errorf("expected output to contain 'built: 2026-01-01', got: %s", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Taskdeck") {
		t.Errorf("expected help output to contain 'Taskdeck', got: %s", out)
	}
	for _, sub := range []string{"version", "serve", "task", "activity", "mode"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help output to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestRootCmdNoArgs(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command with no args failed: %v", err)
	}
}

func TestExecuteSuccess(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"version"})
	if code := execute(cmd); code != 0 {
		t.Errorf("execute = %d, want 0", code)
	}
}

func TestExecuteFailure(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"no-such-command"})
	if code := execute(cmd); code != 1 {
		t.Errorf("execute = %d, want 1", code)
	}
}

func TestTaskCmd_Subcommands(t *testing.T) {
	cmd := newTaskCmd()
	want := map[string]bool{
		"create": false, "list": false, "show": false,
		"update": false, "move": false, "delete": false,
	}
	for _, sub := range cmd.Commands() {
		want[sub.Name()] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("task %s subcommand not registered", name)
		}
	}
}

func TestTaskCreateCmd_RequiresName(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"task", "create"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without --name")
	}
}

func TestModeCmd_Subcommands(t *testing.T) {
	cmd := newModeCmd()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	joined := strings.Join(names, " ")
	for _, sub := range []string{"show", "set", "clear"} {
		if !strings.Contains(joined, sub) {
			t.Errorf("mode %s subcommand not registered (have %s)", sub, joined)
		}
	}
}

func TestParseIDArg(t *testing.T) {
	if id, err := parseIDArg("12"); err != nil || id != 12 {
		t.Errorf("parseIDArg(12) = %d, %v", id, err)
	}
	for _, in := range []string{"0", "-4", "abc", ""} {
		if _, err := parseIDArg(in); err == nil {
			t.Errorf("parseIDArg(%q): expected error", in)
		}
	}
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := newServeCmd()
	for _, flag := range []string{"config", "port", "no-seed"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("serve flag %q not registered", flag)
		}
	}
}
