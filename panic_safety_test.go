package encrust

import (
	"errors"
	"testing"
)

// panicValue runs fn and returns the value it panicked with, if any
func panicValue(fn func()) (r any) {
	defer func() {
		r = recover()
	}()
	fn()
	return nil
}

// TestWithPanicRemasks tests that a panic inside With leaves the value masked
func TestWithPanicRemasks(t *testing.T) {
	e := New(scenario{"panic safe", 7, [6]byte{1, 1, 2, 3, 5, 8}}, 31)
	defer e.Destroy()

	masked := *e.data

	r := panicValue(func() {
		_ = e.With(func(v *scenario) error {
			v.N = 8
			panic("test panic while decrusted")
		})
	})
	if r != "test panic while decrusted" {
		t.Fatalf("expected the callback panic to propagate, got %v", r)
	}

	if e.Exposed() {
		t.Fatal("container still exposed after panic")
	}
	if e.data.S != masked.S || e.data.B != masked.B {
		t.Error("unchanged fields are not masked after panic")
	}

	// Writes made before the panic are kept, like any other release
	err := e.With(func(v *scenario) error {
		if v.N != 8 || v.S != "panic safe" {
			t.Errorf("decrusted %+v after panic", *v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to decrust after panic: %v", err)
	}
}

// TestDeferredReleasePanic tests the explicit guard pattern under panic
func TestDeferredReleasePanic(t *testing.T) {
	e := New([]uint16{10, 20, 30}, 2)
	defer e.Destroy()

	r := panicValue(func() {
		g := e.Decrust()
		defer g.Release()
		(*g.Get())[1] = 21
		panic(errors.New("boom"))
	})
	if r == nil {
		t.Fatal("expected panic")
	}
	if e.Exposed() {
		t.Fatal("deferred release did not run")
	}

	g := e.Decrust()
	defer g.Release()
	if got := *g.Get(); got[0] != 10 || got[1] != 21 || got[2] != 30 {
		t.Errorf("decrusted %v, want [10 21 30]", got)
	}
}

// TestContractPanicKeepsState tests that a rejected acquisition leaves the
// live guard untouched
func TestContractPanicKeepsState(t *testing.T) {
	e := New(uint64(0x1122334455667788), 3)
	defer e.Destroy()

	err := e.With(func(v *uint64) error {
		r := panicValue(func() { e.Decrust() })
		if ce, ok := r.(*ContractError); !ok || !errors.Is(ce, ErrAlreadyExposed) {
			t.Errorf("expected ErrAlreadyExposed panic, got %v", r)
		}
		if *v != 0x1122334455667788 {
			t.Errorf("value changed by rejected acquisition: %#x", *v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
}
