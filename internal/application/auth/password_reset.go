package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// ErrResetTokenInvalid token inexistente, vencido o ya usado.
var ErrResetTokenInvalid = fmt.Errorf("%w: token inválido ou expirado", domain.ErrInvalidInput)

const defaultResetTTL = time.Hour

// ResetMailer envía el link de redefinición.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// PasswordResetConfig LinkBase recibe el token como query "token".
type PasswordResetConfig struct {
	LinkBase string
	TTL      time.Duration
}

// PasswordResetUseCase olvido y redefinición de contraseña.
type PasswordResetUseCase struct {
	users  repository.UserRepository
	tx     repository.TxRunner
	mailer ResetMailer
	cfg    PasswordResetConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewPasswordResetUseCase construye el caso de uso.
func NewPasswordResetUseCase(users repository.UserRepository, tx repository.TxRunner, mailer ResetMailer, cfg PasswordResetConfig, log *logger.Logger) *PasswordResetUseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultResetTTL
	}
	return &PasswordResetUseCase{
		users: users, tx: tx, mailer: mailer, cfg: cfg,
		log: log.Component("password_reset"), now: time.Now,
	}
}

// Forgot emite un token y lo envía por e-mail. Email desconocido o usuario inactivo
// no es error: la respuesta no revela qué cuentas existen.
func (uc *PasswordResetUseCase) Forgot(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.Active {
		uc.log.Debug().Str("email", email).Msg("redefinição solicitada para conta inexistente ou inativa")
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	now := uc.now()
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		// un único token vivo por usuario
		if err := r.Resets.ConsumeByUser(ctx, user.ID, now); err != nil {
			return err
		}
		return r.Resets.Create(ctx, &entity.PasswordReset{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			TokenHash: hashResetToken(token),
			ExpiresAt: now.Add(uc.cfg.TTL),
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	if err := uc.mailer.SendPasswordReset(ctx, user.Email, user.Name, uc.resetLink(token)); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("enviar e-mail de redefinição")
		return fmt.Errorf("%w: falha ao enviar e-mail", domain.ErrUpstream)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("link de redefinição enviado")
	return nil
}

// Reset valida el token y reemplaza la contraseña. El token queda consumido.
func (uc *PasswordResetUseCase) Reset(ctx context.Context, in dto.ResetPasswordRequest) error {
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return ErrResetTokenInvalid
	}
	if len(in.Password) < minPasswordLen {
		return fmt.Errorf("%w: a senha deve ter pelo menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := uc.now()
	var userID string
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Resets.GetByTokenHashForUpdate(ctx, hashResetToken(token))
		if err != nil {
			return err
		}
		if p == nil || !p.Usable(now) {
			return ErrResetTokenInvalid
		}
		user, err := r.Users.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		if user == nil || !user.Active {
			return ErrResetTokenInvalid
		}
		if err := r.Users.UpdatePassword(ctx, user.ID, string(hash), now); err != nil {
			return err
		}
		userID = user.ID
		return r.Resets.ConsumeByUser(ctx, user.ID, now)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) {
			uc.log.Error().Err(err).Msg("redefinir senha")
		}
		return err
	}
	uc.log.Info().Str("user_id", userID).Msg("senha redefinida")
	return nil
}

func (uc *PasswordResetUseCase) resetLink(token string) string {
	base := uc.cfg.LinkBase
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("gerar token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
