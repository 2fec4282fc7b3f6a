package invocation_test

import (
	"reflect"
	"testing"

	"github.com/ghostmind-dev/run/pkg/invocation"
)

func TestParseArgs_MixedTokens(t *testing.T) {
	args := invocation.ParseArgs([]string{"env=prod", "--force", "input1"})

	if !reflect.DeepEqual(args.Positional, []string{"input1"}) {
		t.Errorf("expected positional [input1], got %v", args.Positional)
	}
	if args.Named["env"] != "prod" {
		t.Errorf("expected named env=prod, got %q", args.Named["env"])
	}
	if !args.Flags["force"] {
		t.Error("expected force flag to be set")
	}
}

func TestParseArgs_DashedNamed(t *testing.T) {
	args := invocation.ParseArgs([]string{"--region=eu-west-1"})

	if args.Named["region"] != "eu-west-1" {
		t.Errorf("expected named region=eu-west-1, got %q", args.Named["region"])
	}
	if args.Flags["region"] {
		t.Error("--key=value must not register as a flag")
	}
	if len(args.Positional) != 0 {
		t.Errorf("expected no positionals, got %v", args.Positional)
	}
}

func TestParseArgs_DuplicateNamedLastWins(t *testing.T) {
	args := invocation.ParseArgs([]string{"env=dev", "env=prod"})

	if args.Named["env"] != "prod" {
		t.Errorf("expected last value to win, got %q", args.Named["env"])
	}
}

func TestParseArgs_EmptyKeyStaysPositional(t *testing.T) {
	args := invocation.ParseArgs([]string{"=value", "a=b"})

	if !reflect.DeepEqual(args.Positional, []string{"=value"}) {
		t.Errorf("expected [=value] positional, got %v", args.Positional)
	}
	if args.Named["a"] != "b" {
		t.Errorf("expected named a=b, got %q", args.Named["a"])
	}
}

func TestParseArgs_ValueMayContainEquals(t *testing.T) {
	args := invocation.ParseArgs([]string{"filter=name=web"})

	if args.Named["filter"] != "name=web" {
		t.Errorf("expected value to keep later '=', got %q", args.Named["filter"])
	}
}

func TestParseArgs_NeverErrors(t *testing.T) {
	// Every token has a category; odd shapes degrade to positionals.
	args := invocation.ParseArgs([]string{"--", "---x", "", "a b c"})

	total := len(args.Positional) + len(args.Named) + len(args.Flags)
	if total != 4 {
		t.Errorf("expected all 4 tokens classified, got %d", total)
	}
}

func newTestContext(tokens []string, env map[string]string) *invocation.Context {
	return invocation.NewContextWith(invocation.ParseArgs(tokens), env, "/work")
}

func TestContext_ExtractAbsentIsNil(t *testing.T) {
	inv := newTestContext([]string{"env=prod"}, nil)

	if v := inv.Extract("env"); v == nil || *v != "prod" {
		t.Errorf("expected prod, got %v", v)
	}
	if v := inv.Extract("missing"); v != nil {
		t.Errorf("expected nil for absent key, got %q", *v)
	}
}

func TestContext_HasFlagsAndNamed(t *testing.T) {
	inv := newTestContext([]string{"--force", "env=prod"}, nil)

	if !inv.Has("force") {
		t.Error("expected Has(force) for a flag")
	}
	if !inv.Has("env") {
		t.Error("expected Has(env) for a named argument")
	}
	if inv.Has("other") {
		t.Error("expected Has(other) to be false")
	}
}

func TestContext_SnapshotIsCopied(t *testing.T) {
	env := map[string]string{"HOME": "/root"}
	inv := newTestContext(nil, env)

	got := inv.Environment()
	got["HOME"] = "/tmp"

	if inv.Env("HOME") != "/root" {
		t.Error("mutating the returned map must not affect the snapshot")
	}
}

func TestCmd_DropsAbsentEntries(t *testing.T) {
	var absent *string
	got := invocation.Cmd(invocation.Str("ls"), absent, invocation.Str("-la"))

	if !reflect.DeepEqual(got, []string{"ls", "-la"}) {
		t.Errorf("expected [ls -la], got %v", got)
	}
}

func TestCmd_PreservesOrder(t *testing.T) {
	inv := newTestContext([]string{"region=us"}, nil)

	got := invocation.Cmd(
		invocation.Str("deploy"),
		inv.Extract("region"),
		inv.Extract("zone"),
		invocation.Str("--verbose"),
	)

	want := []string{"deploy", "us", "--verbose"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
