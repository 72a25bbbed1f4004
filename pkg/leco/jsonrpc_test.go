package leco

import "testing"

func TestResponseNullResultFieldOrder(t *testing.T) {
	resp := BuildResponse(1, nil)
	b, err := Marshal(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"jsonrpc":"2.0","id":1,"result":null}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestResponseNumberResultFieldOrder(t *testing.T) {
	resp := BuildResponse(1, 123)
	b, err := Marshal(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"jsonrpc":"2.0","id":1,"result":123}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestErrorResponseFieldOrder(t *testing.T) {
	resp := BuildErrorResponse(0, ErrNotSignedIn)
	b, err := Marshal(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"jsonrpc":"2.0","id":0,"error":{"code":-32090,"message":"Component not signed in yet!"}}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestIsSignInTrue(t *testing.T) {
	req := BuildRequest(0, "sign_in")
	b, _ := Marshal(req)
	if !IsSignIn(b) {
		t.Fatal("expected IsSignIn to be true")
	}
}

func TestIsSignInFalseForOtherMethod(t *testing.T) {
	req := BuildRequest(0, "pong")
	b, _ := Marshal(req)
	if IsSignIn(b) {
		t.Fatal("expected IsSignIn to be false")
	}
}

func TestIsSignInFalseForMalformedJSON(t *testing.T) {
	if IsSignIn([]byte("not json")) {
		t.Fatal("expected IsSignIn to be false for malformed input")
	}
}
