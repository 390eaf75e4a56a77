package auth

import (
	"testing"

	"github.com/decred/slog"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestChallengeVerifyRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	wallet := crypto.PubkeyToAddress(key.PublicKey).Hex()

	a := New([]byte("test-secret"), slog.Disabled)
	c, err := a.IssueChallenge(wallet)
	if err != nil {
		t.Fatal(err)
	}

	digest := eip191Hash(c.Message)
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		t.Fatal(err)
	}
	sigHex := "0x" + hexEncode(sig)

	sess, err := a.VerifyChallenge(wallet, sigHex, c.Nonce, c.Message)
	if err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := a.VerifyToken(sess.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got != normalizeWallet(wallet) {
		t.Fatalf("got %s want %s", got, normalizeWallet(wallet))
	}
}

func TestVerifyIsOneShot(t *testing.T) {
	key, _ := crypto.GenerateKey()
	wallet := crypto.PubkeyToAddress(key.PublicKey).Hex()

	a := New([]byte("test-secret"), slog.Disabled)
	c, _ := a.IssueChallenge(wallet)
	digest := eip191Hash(c.Message)
	sig, _ := crypto.Sign(digest, key)
	sigHex := "0x" + hexEncode(sig)

	if _, err := a.VerifyChallenge(wallet, sigHex, c.Nonce, c.Message); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	_, err := a.VerifyChallenge(wallet, sigHex, c.Nonce, c.Message)
	if err == nil {
		t.Fatal("expected no_challenge on replay")
	}
	if err.(*Error).Kind != ErrNoChallenge {
		t.Fatalf("got kind %v", err.(*Error).Kind)
	}
}

func TestVerifyChallengeRejectsWrongSignature(t *testing.T) {
	key, _ := crypto.GenerateKey()
	wallet := crypto.PubkeyToAddress(key.PublicKey).Hex()
	otherKey, _ := crypto.GenerateKey()

	a := New([]byte("test-secret"), slog.Disabled)
	c, _ := a.IssueChallenge(wallet)
	digest := eip191Hash(c.Message)
	sig, _ := crypto.Sign(digest, otherKey) // signed by the wrong key
	sigHex := "0x" + hexEncode(sig)

	_, err := a.VerifyChallenge(wallet, sigHex, c.Nonce, c.Message)
	if err == nil {
		t.Fatal("expected bad_signature")
	}
	if err.(*Error).Kind != ErrBadSignature {
		t.Fatalf("got kind %v", err.(*Error).Kind)
	}
}

func TestRateLimiterBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(map[Class]ClassLimit{
		ClassAuth: {Burst: 2, Window: 60000000000}, // 1 minute in ns
	})
	ok1, _ := rl.Allow("1.2.3.4", "", ClassAuth)
	ok2, _ := rl.Allow("1.2.3.4", "", ClassAuth)
	ok3, retryAfter := rl.Allow("1.2.3.4", "", ClassAuth)
	if !ok1 || !ok2 {
		t.Fatal("expected first two requests to be allowed (burst=2)")
	}
	if ok3 {
		t.Fatal("expected third request to be rate limited")
	}
	if retryAfter <= 0 {
		t.Fatal("expected positive retry-after hint")
	}
}

func hexEncode(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
