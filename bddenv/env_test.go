package bddenv

import "testing"

func buildTestEnv(t *testing.T, names ...string) (*Env, map[string]int) {
	t.Helper()
	b := NewBuilder()
	idx := make(map[string]int, len(names))
	for _, n := range names {
		idx[n] = b.MakeVariable(n)
	}
	env, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return env, idx
}

func TestBuilderAssignsStableIndices(t *testing.T) {
	env, idx := buildTestEnv(t, "a", "b", "c")
	if env.NumVars() != 3 {
		t.Fatalf("NumVars = %d, want 3", env.NumVars())
	}
	for name, want := range idx {
		got, ok := env.VarIndex(name)
		if !ok || got != want {
			t.Fatalf("VarIndex(%q) = (%d, %v), want (%d, true)", name, got, ok, want)
		}
		if env.VarName(got) != name {
			t.Fatalf("VarName(%d) = %q, want %q", got, env.VarName(got), name)
		}
	}
}

func TestUnknownVariablePanics(t *testing.T) {
	env, _ := buildTestEnv(t, "a")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown variable")
		}
	}()
	env.Var("nope")
}

func TestAndOrIdentities(t *testing.T) {
	env, _ := buildTestEnv(t, "a", "b")
	if !env.Equal(env.And(), env.True()) {
		t.Fatal("And() with no args must equal True")
	}
	if !env.Equal(env.Or(), env.False()) {
		t.Fatal("Or() with no args must equal False")
	}
	a := env.Var("a")
	if !env.Equal(env.And(a, env.True()), a) {
		t.Fatal("a AND true != a")
	}
	if !env.Equal(env.Or(a, env.False()), a) {
		t.Fatal("a OR false != a")
	}
}

func TestRenameSimultaneous(t *testing.T) {
	// f = (a AND NOT b). Renaming a->b and b->a simultaneously must yield
	// (b AND NOT a), not some intermediate collision artifact.
	env, idx := buildTestEnv(t, "a", "b")
	a := env.Var("a")
	b := env.Var("b")
	f := env.And(a, env.Not(b))

	renamed := env.Rename(f, []int{idx["a"], idx["b"]}, []int{idx["b"], idx["a"]})
	want := env.And(b, env.Not(a))

	if !env.Equal(renamed, want) {
		t.Fatal("simultaneous rename of overlapping variable sets produced wrong result")
	}
}
