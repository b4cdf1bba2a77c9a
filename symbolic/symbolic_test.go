package symbolic

import (
	"testing"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
)

type domainFactory struct {
	name string
	new  func(b *bddenv.Builder, name string, max uint8) OrdDomain
}

var factories = []domainFactory{
	{"unary", func(b *bddenv.Builder, name string, max uint8) OrdDomain { return NewUnaryDomain(b, name, max) }},
	{"binary", func(b *bddenv.Builder, name string, max uint8) OrdDomain { return NewBinaryDomain(b, name, max) }},
	{"gray", func(b *bddenv.Builder, name string, max uint8) OrdDomain { return NewGrayDomain(b, name, max) }},
	{"onehot", func(b *bddenv.Builder, name string, max uint8) OrdDomain { return NewOneHotDomain(b, name, max) }},
}

func buildDomain(t *testing.T, f domainFactory, max uint8) (*bddenv.Env, OrdDomain) {
	t.Helper()
	b := bddenv.NewBuilder()
	d := f.new(b, "x", max)
	env, err := b.Build()
	if err != nil {
		t.Fatalf("%s: Build: %v", f.name, err)
	}
	return env, d
}

func TestRoundTripAllEncodings(t *testing.T) {
	for _, f := range factories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			env, d := buildDomain(t, f, 5)
			for v := uint8(0); v <= 5; v++ {
				val := make(Valuation, d.Size())
				d.EncodeBits(val, v)
				if got := d.DecodeBits(val); got != v {
					t.Fatalf("round trip %d -> %d", v, got)
				}
				node := EncodeOne(env, d, v)
				if got := DecodeOne(env, d, node); got != v {
					t.Fatalf("EncodeOne/DecodeOne round trip %d -> %d", v, got)
				}
			}
		})
	}
}

func TestUnitCollectionCoversExactlyTheDomain(t *testing.T) {
	for _, f := range factories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			env, d := buildDomain(t, f, 5)
			unit := d.UnitCollection(env)
			decoded := DecodeCollection(env, d, unit)
			if len(decoded) != 6 {
				t.Fatalf("unit collection decodes to %d values, want 6 (got %v)", len(decoded), decoded)
			}
			seen := make(map[uint8]bool, 6)
			for _, v := range decoded {
				seen[v] = true
			}
			for v := uint8(0); v <= 5; v++ {
				if !seen[v] {
					t.Fatalf("value %d missing from decoded unit collection %v", v, decoded)
				}
			}
		})
	}
}

func TestEmptyCollectionDecodesToNothing(t *testing.T) {
	for _, f := range factories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			env, d := buildDomain(t, f, 3)
			empty := d.EmptyCollection(env)
			if decoded := DecodeCollection(env, d, empty); len(decoded) != 0 {
				t.Fatalf("empty collection decoded to %v, want none", decoded)
			}
		})
	}
}

func TestRangePredicatesAgreeWithTotalOrder(t *testing.T) {
	for _, f := range factories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			env, d := buildDomain(t, f, 6)
			unit := d.UnitCollection(env)
			for pivot := uint8(0); pivot <= 6; pivot++ {
				lt := env.And(d.EncodeLt(env, pivot), unit)
				le := env.And(d.EncodeLe(env, pivot), unit)
				gt := env.And(d.EncodeGt(env, pivot), unit)
				ge := env.And(d.EncodeGe(env, pivot), unit)

				checkPredicate(t, env, d, lt, func(v uint8) bool { return v < pivot })
				checkPredicate(t, env, d, le, func(v uint8) bool { return v <= pivot })
				checkPredicate(t, env, d, gt, func(v uint8) bool { return v > pivot })
				checkPredicate(t, env, d, ge, func(v uint8) bool { return v >= pivot })
			}
		})
	}
}

func checkPredicate(t *testing.T, env *bddenv.Env, d Domain, node rudd.Node, want func(uint8) bool) {
	t.Helper()
	decoded := DecodeCollection(env, d, node)
	seen := make(map[uint8]bool, len(decoded))
	for _, v := range decoded {
		seen[v] = true
	}
	for v := uint8(0); v <= d.Max(); v++ {
		if seen[v] != want(v) {
			t.Fatalf("value %d: predicate membership = %v, want %v", v, seen[v], want(v))
		}
	}
}
