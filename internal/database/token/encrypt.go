package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

// EncryptionTokenMarshaler seals cursors so clients can only hand back tokens
// the server issued for the same scope.
type EncryptionTokenMarshaler struct {
	Mode   EncryptMode
	Secret string
}

func NewGCM(secret string) *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode:   cipher.NewGCM,
		Secret: secret,
	}
}

func _encodeNextToken(token []byte) string {
	return base64.URLEncoding.EncodeToString(token)
}

func _decodeNextToken(encToken []byte) ([]byte, error) {
	dec := make([]byte, base64.URLEncoding.DecodedLen(len(encToken)))
	n, err := base64.URLEncoding.Decode(dec, encToken)
	if err != nil {
		return nil, err
	}
	return dec[:n], err
}

func _hash(secret string, scope string) []byte {
	hash := sha256.New()
	hash.Write([]byte(secret))
	hash.Write([]byte{0})
	hash.Write([]byte(scope))
	return hash.Sum(nil)
}

func _mode(marshaller *EncryptionTokenMarshaler, scope string) (cipher.AEAD, error) {
	key, err := aes.NewCipher(_hash(marshaller.Secret, scope))
	if err != nil {
		return nil, err
	}
	return marshaller.Mode(key)
}

func (em *EncryptionTokenMarshaler) Marshal(scope string, cursor *Cursor) ([]byte, error) {
	if cursor == nil {
		return nil, nil
	}
	serialized, err := json.Marshal(cursor)
	if err != nil {
		return nil, err
	}
	aesgcm, err := _mode(em, scope)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := aesgcm.Seal(nil, nonce, serialized, nil)
	payload := map[string]string{
		"ciphertext": hex.EncodeToString(ciphertext),
		"nonce":      hex.EncodeToString(nonce),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(_encodeNextToken(b))), nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(scope string, token []byte) (*Cursor, error) {
	if len(token) == 0 {
		return nil, nil
	}
	decToken, err := _decodeNextToken(token)
	if err != nil {
		return nil, err
	}
	var payload map[string]string
	if err := json.Unmarshal(decToken, &payload); err != nil {
		return nil, err
	}
	aesgcm, err := _mode(em, scope)
	if err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(payload["ciphertext"])
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(payload["nonce"])
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size %d", len(nonce))
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	var cursor Cursor
	if err := json.Unmarshal(plaintext, &cursor); err != nil {
		return nil, err
	}
	return &cursor, nil
}
