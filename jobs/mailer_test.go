package jobs

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/smartstock/smartstock/internal/jobs"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestSMTPMailerBuildsMessage(t *testing.T) {
	var got capturedMail
	m := NewSMTPMailer(SMTPConfig{Host: "mail.local", Port: 2525, From: "noreply@smartstock.local"})
	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got = capturedMail{addr: addr, from: from, to: to, msg: string(msg)}
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "user@example.com", "Your OTP\r\nBcc: x", "code 1234\nbye"))
	assert.Equal(t, "mail.local:2525", got.addr)
	assert.Equal(t, []string{"user@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Your OTP  Bcc: x\r\n")
	assert.Contains(t, got.msg, "code 1234\r\nbye")
}

func TestSMTPMailerRequiresHost(t *testing.T) {
	err := NewSMTPMailer(SMTPConfig{}).Send(context.Background(), "a@b.c", "s", "b")
	require.Error(t, err)
}

type fakeMailer struct {
	sent []SendEmailPayload
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, SendEmailPayload{To: to, Subject: subject, Body: body})
	return nil
}

func TestSendEmailHandler(t *testing.T) {
	mailer := &fakeMailer{}
	reg := prometheus.NewRegistry()
	h := SendEmailHandler{Mailer: mailer, Metrics: jobmetrics.NewMetrics(reg)}

	task, err := NewSendEmailTask(SendEmailPayload{To: "a@b.c", Subject: "hi", Body: "there"})
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@b.c", mailer.sent[0].To)

	err = h.ProcessTask(context.Background(), asynq.NewTask(TaskTypeSendEmail, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	mailer.err = errors.New("relay down")
	require.Error(t, h.ProcessTask(context.Background(), task))
	families, err := reg.Gather()
	require.NoError(t, err)
	var failures float64
	for _, mf := range families {
		if mf.GetName() == "smartstock_jobs_failures_total" {
			for _, m := range mf.GetMetric() {
				failures += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), failures)
}

func TestNewSendEmailTaskRequiresRecipient(t *testing.T) {
	_, err := NewSendEmailTask(SendEmailPayload{Subject: "x"})
	require.Error(t, err)
}

type staticLowStock []LowStockItem

func (s staticLowStock) LowStockItems(context.Context) ([]LowStockItem, error) {
	return s, nil
}

func TestLowStockDigestHandler(t *testing.T) {
	mailer := &fakeMailer{}
	h := LowStockDigestHandler{
		Source:    staticLowStock{{Code: "IT-1", Description: "Cable", ReorderLevel: "3"}},
		Mailer:    mailer,
		Recipient: "manager@example.com",
		Metrics:   jobmetrics.NewMetrics(prometheus.NewRegistry()),
	}
	require.NoError(t, h.ProcessTask(context.Background(), NewLowStockDigestTask()))
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Subject, "1 items")
	assert.Contains(t, mailer.sent[0].Body, "IT-1\tCable\treorder level 3")

	h.Recipient = ""
	require.NoError(t, h.ProcessTask(context.Background(), NewLowStockDigestTask()))
	assert.Len(t, mailer.sent, 1)
}
