// Package secret cifra valores sensibles en reposo con NaCl secretbox.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

// prefix versión del formato: "v1:" + base64(nonce || caja).
const prefix = "v1:"

const nonceSize = 24

// ErrDecrypt valor cifrado corrupto o clave incorrecta.
var ErrDecrypt = errors.New("secret: não foi possível decifrar")

// Box sella y abre valores con una clave derivada de la passphrase configurada.
type Box struct {
	key [32]byte
}

// NewBox deriva la clave con SHA-256. Passphrase vacía es error.
func NewBox(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, errors.New("secret: chave vazia")
	}
	return &Box{key: sha256.Sum256([]byte(passphrase))}, nil
}

// Seal cifra plain con un nonce aleatorio.
func (b *Box) Seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("secret: nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open descifra un valor de Seal. Sin prefijo se devuelve tal cual: son filas
// anteriores al cifrado.
func (b *Box) Open(sealed string) (string, error) {
	if !Sealed(sealed) {
		return sealed, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, prefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Sealed el valor tiene el formato cifrado.
func Sealed(v string) bool {
	return strings.HasPrefix(v, prefix)
}
