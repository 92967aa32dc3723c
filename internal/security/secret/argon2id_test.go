package secret

import (
	"strings"
	"testing"
)

// params chicos para que el test no pague los 64MiB de Default
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(testParams, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC prefix: %s", phc)
	}
	if !Verify("s3cret", phc) {
		t.Fatal("correct secret must verify")
	}
	if Verify("wrong", phc) {
		t.Fatal("wrong secret must not verify")
	}
}

func TestHash_DistinctSalts(t *testing.T) {
	a, err := Hash(testParams, "same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash(testParams, "same")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same secret must differ (random salt)")
	}
}

func TestHash_EmptySecret(t *testing.T) {
	if _, err := Hash(testParams, ""); err == nil {
		t.Fatal("empty secret must be rejected")
	}
}

func TestVerify_Malformed(t *testing.T) {
	bad := []string{
		"",
		"plaintext",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGs",      // version incorrecta
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$ZGs",       // variante incorrecta
		"$argon2id$v=19$m=8192,t=1,p=1$!!notbase64!$ZGs", // salt roto
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA",          // campos de menos
	}
	for _, phc := range bad {
		if Verify("whatever", phc) {
			t.Fatalf("malformed PHC must not verify: %q", phc)
		}
	}
}
