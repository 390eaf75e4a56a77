package auth

import (
	"strings"
	"time"

	"github.com/decred/slog"
)

// Auth implements wallet authentication: challenge issuance, EIP-191
// signature verification, and self-describing session tokens.
type Auth struct {
	log        slog.Logger
	challenges *challengeStore
	tokens     *tokenCodec
}

// New constructs an Auth service. secret is the HMAC key used to sign
// session tokens; it must be stable across restarts for issued tokens to
// keep validating.
func New(secret []byte, log slog.Logger) *Auth {
	return &Auth{
		log:        log,
		challenges: newChallengeStore(),
		tokens:     newTokenCodec(secret),
	}
}

// IssueChallenge generates a fresh nonce and canonical message for wallet.
func (a *Auth) IssueChallenge(wallet string) (*Challenge, error) {
	w := normalizeWallet(wallet)
	c, err := a.challenges.issue(w)
	if err != nil {
		return nil, err
	}
	a.log.Debugf("issued challenge for %s", w)
	return c, nil
}

// VerifyChallenge validates signature against the pending challenge for
// wallet and, on success, issues a 24-hour bearer session token.
func (a *Auth) VerifyChallenge(wallet, signature, nonce, message string) (*Session, error) {
	w := normalizeWallet(wallet)
	c, err := a.challenges.take(w, nonce, message)
	if err != nil {
		return nil, err
	}
	if err := verifySignature(w, c.Message, signature); err != nil {
		return nil, err
	}

	expiry := time.Now().Add(TokenTTL)
	token := a.tokens.sign(w, expiry)
	a.log.Debugf("issued session for %s", w)
	return &Session{Token: token, Expiry: expiry}, nil
}

// VerifyToken validates a bearer token and returns the normalized wallet.
func (a *Auth) VerifyToken(token string) (string, error) {
	return a.tokens.verify(token)
}

// normalizeWallet lower-cases a wallet address so it can be compared and
// used as a map key without regard to case.
func normalizeWallet(w string) string {
	return strings.ToLower(w)
}
