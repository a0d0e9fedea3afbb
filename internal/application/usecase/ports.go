package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

// FileStore almacenamiento de archivos por prefijo de empresa.
type FileStore interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// CNPJLookup consulta de datos cadastrais de un CNPJ en proveedores externos.
type CNPJLookup interface {
	Lookup(ctx context.Context, cnpj string) (*dto.CNPJInfo, error)
}

// CertificateInfo datos extraídos de un certificado A1.
type CertificateInfo struct {
	Subject  string
	NotAfter time.Time
}

// CertificateInspector abre un PKCS#12 con su contraseña.
type CertificateInspector interface {
	Inspect(data []byte, password string) (*CertificateInfo, error)
}

// SecretBox cifra en reposo la senha del certificado. Open acepta valores sin cifrar.
type SecretBox interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

// BudgetRenderer genera el PDF de un orçamento.
type BudgetRenderer interface {
	Render(doc *dto.BudgetDocument) ([]byte, error)
}

// RPSBuilder genera el XML RPS de una solicitação de NFS-e.
type RPSBuilder interface {
	Build(req *entity.InvoiceRequest, company *entity.Company) ([]byte, error)
}

// NotificationStream suscripción en vivo a las notificaciones de un usuario.
type NotificationStream interface {
	Subscribe(ctx context.Context, userID string) <-chan *entity.Notification
}
