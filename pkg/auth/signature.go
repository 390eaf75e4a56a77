package auth

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// eip191Hash reproduces the standard EIP-191 personal-message digest:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
// Any wallet that implements personal_sign interoperates with this.
func eip191Hash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	h := crypto.Keccak256Hash([]byte(prefixed))
	return h.Bytes()
}

// verifySignature recovers the signer address from sigHex over message and
// reports whether it matches wallet (case-insensitively).
func verifySignature(wallet, message, sigHex string) error {
	sig, err := decodeSignature(sigHex)
	if err != nil {
		return newErr(ErrBadSignature, "malformed signature: %v", err)
	}
	digest := eip191Hash(message)

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return newErr(ErrBadSignature, "signature recovery failed: %v", err)
	}
	recovered := crypto.PubkeyToAddress(*pub).Hex()
	if !strings.EqualFold(recovered, wallet) {
		return newErr(ErrBadSignature, "recovered address %s does not match %s", recovered, wallet)
	}
	return nil
}

// decodeSignature accepts a 65-byte hex-encoded signature (r||s||v), with
// or without a leading "0x", and normalizes v to the {0,1} form go-ethereum's
// SigToPub expects (wallets commonly produce v in {27,28}).
func decodeSignature(sigHex string) ([]byte, error) {
	sigHex = strings.TrimPrefix(sigHex, "0x")
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil, err
	}
	if len(sig) != 65 {
		return nil, fmt.Errorf("expected 65-byte signature, got %d", len(sig))
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	return sig, nil
}
