package payments

import "testing"

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"amount":100000,"currency":"COP"}`)
	secret := "test-secret"

	sig := Sign(body, secret)
	if !VerifyHMAC(body, sig, secret) {
		t.Fatal("signature must verify with the same secret")
	}
	if VerifyHMAC(body, sig, "other-secret") {
		t.Fatal("signature must not verify with a different secret")
	}
	if VerifyHMAC([]byte(`tampered`), sig, secret) {
		t.Fatal("signature must not verify for a different body")
	}
	if VerifyHMAC(body, "zz-not-hex", secret) {
		t.Fatal("non-hex signature must not verify")
	}
}
