package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sent struct{ to, subject, body string }

type chanSender struct {
	out chan sent
	err error
}

func (c *chanSender) SendEmail(_ context.Context, to, subject, body string) error {
	c.out <- sent{to, subject, body}
	return c.err
}

func TestConfirmationSubject(t *testing.T) {
	assert.Equal(t, "Order Confirmed #1f0c2a9b", ConfirmationSubject("1f0c2a9b-77aa-4c1e-9d42-000000000000"))
	assert.Equal(t, "Order Confirmed #abc", ConfirmationSubject("abc"))
}

func TestNotifier_SendsAsync(t *testing.T) {
	s := &chanSender{out: make(chan sent, 1)}
	n := NewNotifier(s, zap.NewNop())
	n.SendOrderConfirmation("asha@example.com", "1f0c2a9b-77aa", decimal.RequireFromString("118"))

	select {
	case m := <-s.out:
		assert.Equal(t, "asha@example.com", m.to)
		assert.Equal(t, "Order Confirmed #1f0c2a9b", m.subject)
		assert.Contains(t, m.body, "118.00")
	case <-time.After(2 * time.Second):
		t.Fatal("email was not sent")
	}
}

func TestNotifier_AbsorbsFailures(t *testing.T) {
	s := &chanSender{out: make(chan sent, 1), err: errors.New("smtp down")}
	n := NewNotifier(s, zap.NewNop())
	assert.NotPanics(t, func() { n.SendOrderConfirmation("a@b.c", "order-1", decimal.NewFromInt(5)) })
	<-s.out

	n.SendOrderConfirmation("", "order-2", decimal.NewFromInt(5))
	select {
	case <-s.out:
		t.Fatal("email without address must be skipped")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewSMTPSender_RequiresHost(t *testing.T) {
	_, err := NewSMTPSender("", "587", "u", "p", "")
	require.Error(t, err)

	s, err := NewSMTPSender("smtp.example.com", "587", "u", "p", "")
	require.NoError(t, err)
	assert.Equal(t, "u", s.from)
}
