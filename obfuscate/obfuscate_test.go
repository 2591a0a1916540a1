package obfuscate_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"cssobf/hasher"
	"cssobf/obfuscate"
)

const seed = "foobar"

func TestNew_KnownVector(t *testing.T) {
	fn, err := obfuscate.New(obfuscate.Config{Seed: seed})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := fn("App"); got != "b3411db7" {
		t.Errorf("fn(App) = %q, want b3411db7", got)
	}
	if fn("App") != fn("App") {
		t.Error("repeated calls must return identical tokens")
	}
}

func TestNew_Interchangeable(t *testing.T) {
	cfg := obfuscate.Config{Seed: seed, Hasher: hasher.KindHighway}
	a, err := obfuscate.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := obfuscate.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Foo", "Bar", "Bar--module"} {
		if a(name) != b(name) {
			t.Errorf("instances disagree on %q: %q vs %q", name, a(name), b(name))
		}
	}
}

func TestNew_Prefix(t *testing.T) {
	fn, err := obfuscate.New(obfuscate.Config{Seed: seed, Prefix: "_"})
	if err != nil {
		t.Fatal(err)
	}
	if got := fn("App"); got != "_b3411db7" {
		t.Errorf("fn(App) = %q, want _b3411db7", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  obfuscate.Config
		want error
	}{
		{"empty seed", obfuscate.Config{}, obfuscate.ErrNoSeed},
		{"unknown hasher", obfuscate.Config{Seed: seed, Hasher: hasher.Kind(7)}, obfuscate.ErrUnknownHasher},
		{"digit prefix", obfuscate.Config{Seed: seed, Prefix: "1x"}, obfuscate.ErrBadPrefix},
		{"dot prefix", obfuscate.Config{Seed: seed, Prefix: "a.b"}, obfuscate.ErrBadPrefix},
		{"good prefix", obfuscate.Config{Seed: seed, Prefix: "c-"}, nil},
		{"dash prefix", obfuscate.Config{Seed: seed, Prefix: "-x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
			if _, nerr := obfuscate.New(tt.cfg); !errors.Is(nerr, tt.want) {
				t.Errorf("New() = %v, want %v", nerr, tt.want)
			}
		})
	}
}

func TestMemoize(t *testing.T) {
	calls := 0
	fn := obfuscate.Func(func(name string) string {
		calls++
		return strings.ToUpper(name)
	}).Memoize()

	for range 3 {
		if got := fn("abc"); got != "ABC" {
			t.Fatalf("fn(abc) = %q", got)
		}
	}
	fn("def")
	if calls != 2 {
		t.Errorf("underlying function called %d times, want 2", calls)
	}
}

func TestRecorder(t *testing.T) {
	fn, err := obfuscate.New(obfuscate.Config{Seed: seed})
	if err != nil {
		t.Fatal(err)
	}
	rec := obfuscate.NewRecorder()
	wrapped := rec.Wrap(fn)

	for _, name := range []string{"item10", "item2", "App", "item2", "true"} {
		if wrapped(name) != fn(name) {
			t.Errorf("recorder changed token for %q", name)
		}
	}

	if rec.Len() != 4 {
		t.Errorf("Len() = %d, want 4", rec.Len())
	}
	want := []string{"App", "item2", "item10", "true"}
	got := rec.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	var buf bytes.Buffer
	if _, err := rec.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "App: \"b3411db7\"\n") {
		t.Errorf("unexpected mapping output:\n%s", out)
	}
	if !strings.Contains(out, "\"true\": ") {
		t.Errorf("boolean-looking key must stay a string:\n%s", out)
	}
	if strings.Index(out, "item2:") > strings.Index(out, "item10:") {
		t.Errorf("names are not in natural order:\n%s", out)
	}
}
