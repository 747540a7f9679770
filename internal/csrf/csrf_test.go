package csrf

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}

	token, err := CreateToken(secret)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	if !Verify(secret, token) {
		t.Fatalf("token did not verify against its own secret")
	}
}

func TestTokensDifferPerHandshake(t *testing.T) {
	secret, _ := GenerateSecret()

	t1, _ := CreateToken(secret)
	t2, _ := CreateToken(secret)

	if t1 == t2 {
		t.Fatalf("expected salted tokens to differ")
	}
	if !Verify(secret, t1) || !Verify(secret, t2) {
		t.Fatalf("both tokens should verify")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	s1, _ := GenerateSecret()
	s2, _ := GenerateSecret()

	token, _ := CreateToken(s1)
	if Verify(s2, token) {
		t.Fatalf("token verified against a different secret")
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	secret, _ := GenerateSecret()
	token, _ := CreateToken(secret)

	tampered := token[:len(token)-1] + "x"
	if tampered != token && Verify(secret, tampered) {
		t.Fatalf("tampered token verified")
	}
}

func TestVerify_Malformed(t *testing.T) {
	secret, _ := GenerateSecret()

	for _, tok := range []string{"", "no-separator", ".leading", strings.Repeat("a", 64)} {
		if Verify(secret, tok) {
			t.Fatalf("malformed token %q verified", tok)
		}
	}
	if Verify("", "salt.mac") {
		t.Fatalf("empty secret verified")
	}
}
