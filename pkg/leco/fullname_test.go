package leco

import "testing"

func TestParseFullNameWithNamespace(t *testing.T) {
	fn, err := ParseFullName([]byte("N1.com_A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(fn.Namespace) != "N1" || string(fn.Name) != "com_A" {
		t.Fatalf("got namespace=%q name=%q", fn.Namespace, fn.Name)
	}
}

func TestParseFullNameWithoutNamespace(t *testing.T) {
	fn, err := ParseFullName([]byte("com_A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fn.Namespace) != 0 {
		t.Fatalf("expected empty namespace, got %q", fn.Namespace)
	}
	if string(fn.Name) != "com_A" {
		t.Fatalf("got name=%q", fn.Name)
	}
}

func TestParseFullNameTooManySeparators(t *testing.T) {
	_, err := ParseFullName([]byte("a.b.c"))
	if err == nil {
		t.Fatal("expected an error for multiple separators")
	}
}

func TestFullNameIsCoordinator(t *testing.T) {
	fn, _ := ParseFullName([]byte("N1.COORDINATOR"))
	if !fn.IsCoordinator() {
		t.Fatal("expected IsCoordinator() to be true")
	}
	fn2, _ := ParseFullName([]byte("N1.com_A"))
	if fn2.IsCoordinator() {
		t.Fatal("expected IsCoordinator() to be false")
	}
}

func TestBuildFullNameRoundtrip(t *testing.T) {
	built := BuildFullName([]byte("N1"), []byte("com_A"))
	if string(built) != "N1.com_A" {
		t.Fatalf("got %q", built)
	}
	built2 := BuildFullName(nil, []byte("COORDINATOR"))
	if string(built2) != "COORDINATOR" {
		t.Fatalf("got %q", built2)
	}
}
