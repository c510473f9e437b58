package service

import (
	"reflect"
	"testing"
)

func TestAlertRegistry(t *testing.T) {
	t.Parallel()

	a := NewAlertRegistry()

	if err := a.Acknowledge(""); err == nil {
		t.Fatal("empty key must be rejected")
	}
	if a.Acknowledged("x") {
		t.Fatal("fresh registry should be empty")
	}

	for _, k := range []string{"b8:100", "00:200", "b8:100"} {
		if err := a.Acknowledge(k); err != nil {
			t.Fatalf("Acknowledge(%q): %v", k, err)
		}
	}
	if !a.Acknowledged("b8:100") || !a.Acknowledged("00:200") {
		t.Fatal("acknowledged keys not found")
	}
	if got := a.Keys(); !reflect.DeepEqual(got, []string{"00:200", "b8:100"}) {
		t.Fatalf("Keys: %v", got)
	}

	a.Reset()
	if a.Acknowledged("b8:100") {
		t.Fatal("Reset did not clear keys")
	}
	if len(a.Keys()) != 0 {
		t.Fatalf("Keys after reset: %v", a.Keys())
	}
}
