package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	signingInfo    = "maw/cookie/signing"
	encryptionInfo = "maw/cookie/encryption"
)

// key is the pair of keys derived from one secret.
type key struct {
	signing []byte
	aead    cipher.AEAD
}

func deriveKey(secret string) (key, error) {
	signing, err := expand(secret, signingInfo)
	if err != nil {
		return key{}, err
	}
	encryption, err := expand(secret, encryptionInfo)
	if err != nil {
		return key{}, err
	}

	block, err := aes.NewCipher(encryption)
	if err != nil {
		return key{}, fmt.Errorf("cookie: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return key{}, fmt.Errorf("cookie: create gcm: %w", err)
	}
	return key{signing: signing, aead: aead}, nil
}

func expand(secret, info string) ([]byte, error) {
	out := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("cookie: derive key: %w", err)
	}
	return out, nil
}
