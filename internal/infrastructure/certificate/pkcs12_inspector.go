// Package certificate lee certificados digitales A1 (.pfx/.p12).
package certificate

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/pkcs12"

	"github.com/jhoicas/topmei-api/internal/application/usecase"
)

var _ usecase.CertificateInspector = (*PKCS12Inspector)(nil)

// PKCS12Inspector abre el contenedor PKCS#12 para confirmar la contraseña y leer la validez.
type PKCS12Inspector struct{}

// NewPKCS12Inspector construye el inspector.
func NewPKCS12Inspector() *PKCS12Inspector { return &PKCS12Inspector{} }

// Inspect decodifica el .pfx con la contraseña. La llave privada se descarta.
func (i *PKCS12Inspector) Inspect(data []byte, password string) (*usecase.CertificateInfo, error) {
	if len(data) == 0 {
		return nil, errors.New("certificado vazio")
	}
	_, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, fmt.Errorf("decodificar p12: senha incorreta: %w", err)
		}
		return nil, fmt.Errorf("decodificar p12: %w", err)
	}
	return &usecase.CertificateInfo{
		Subject:  cert.Subject.CommonName,
		NotAfter: cert.NotAfter,
	}, nil
}
