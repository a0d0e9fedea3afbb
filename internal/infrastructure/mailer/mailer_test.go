package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/topmei-api/pkg/config"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSendPasswordReset_ArmaMensaje(t *testing.T) {
	s := &fakeSender{}
	m := newSMTPMailer("TopMEI <nao-responda@topmei.com.br>", s, logger.Nop())

	err := m.SendPasswordReset(context.Background(), "ana@mei.com", "Ana", "https://app/redefinir?token=abc")
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	msg := s.sent[0]
	assert.Equal(t, []string{resetSubject}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("To"), 1)
	assert.Contains(t, msg.GetHeader("To")[0], "ana@mei.com")
	assert.Equal(t, []string{"TopMEI <nao-responda@topmei.com.br>"}, msg.GetHeader("From"))
}

func TestSendPasswordReset_ErrorDelServidor(t *testing.T) {
	s := &fakeSender{err: errors.New("conexão recusada")}
	m := newSMTPMailer("x@topmei.com.br", s, logger.Nop())

	err := m.SendPasswordReset(context.Background(), "ana@mei.com", "Ana", "https://app/r?token=abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send")
}

func TestSendPasswordReset_ContextoCancelado(t *testing.T) {
	s := &fakeSender{}
	m := newSMTPMailer("x@topmei.com.br", s, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendPasswordReset(ctx, "ana@mei.com", "Ana", "https://app/r?token=abc")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.sent)
}

func TestRenderReset_EscapaHTML(t *testing.T) {
	text, html, err := renderReset("<b>Ana</b>", "https://app/r?token=a&b")
	require.NoError(t, err)
	assert.Contains(t, text, "https://app/r?token=a&b")
	assert.Contains(t, html, "&lt;b&gt;Ana&lt;/b&gt;")
	assert.Contains(t, html, `href="https://app/r?token=a&amp;b"`)
}

func TestNew_SinSMTPUsaLog(t *testing.T) {
	m := New(config.SMTPConfig{}, logger.Nop())
	_, ok := m.(*LogMailer)
	assert.True(t, ok)
	assert.NoError(t, m.SendPasswordReset(context.Background(), "a@mei.com", "A", "link"))

	m = New(config.SMTPConfig{Host: "smtp.topmei.com.br", Port: 587}, logger.Nop())
	_, ok = m.(*SMTPMailer)
	assert.True(t, ok)
}
