package services

import (
	"context"
	"errors"
	"net/http"
	"net/smtp"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestMailer(sent *[]sentMail, failWith error) *Mailer {
	m := NewMailer(Config{Host: "smtp.example.com", Port: "587", Username: "u", Password: "p", From: "noreply@example.com"})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if failWith != nil {
			return failWith
		}
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m
}

func TestSendHTMLEmailHeaders(t *testing.T) {
	var sent []sentMail
	m := newTestMailer(&sent, nil)

	if err := m.SendHTMLEmail("ops@example.com", "Halo", "<p>hi</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sent))
	}
	got := sent[0]
	if got.addr != "smtp.example.com:587" || got.from != "noreply@example.com" {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	if !strings.Contains(got.msg, "Subject: Halo\r\n") || !strings.HasSuffix(got.msg, "\r\n\r\n<p>hi</p>") {
		t.Fatalf("unexpected message: %q", got.msg)
	}
}

func TestGatewayAlertOnlyForUnauthorized(t *testing.T) {
	var sent []sentMail
	n := NewGatewayAlertNotifier(newTestMailer(&sent, nil), "ops@example.com", zap.NewNop())

	n.NotifyGatewayTrip(context.Background(), statusError("GetProvinces", http.StatusBadGateway, "down"))
	n.NotifyGatewayTrip(context.Background(), statusError("GetProvinces", http.StatusGone, "gone"))
	if len(sent) != 0 {
		t.Fatalf("outages must not send mail, sent %d", len(sent))
	}

	n.NotifyGatewayTrip(context.Background(), statusError("GetProvinces", http.StatusUnauthorized, "bad key"))
	n.NotifyGatewayTrip(context.Background(), statusError("GetCities", http.StatusForbidden, "bad key"))
	if len(sent) != 1 {
		t.Fatalf("sent = %d, want exactly one alert", len(sent))
	}
	if !strings.Contains(sent[0].msg, "status <strong>401</strong>") {
		t.Fatalf("alert body missing status: %q", sent[0].msg)
	}
}

func TestGatewayAlertRetriesAfterSendFailure(t *testing.T) {
	var sent []sentMail
	failing := newTestMailer(&sent, errors.New("smtp unavailable"))
	n := NewGatewayAlertNotifier(failing, "ops@example.com", zap.NewNop())

	n.NotifyGatewayTrip(context.Background(), statusError("GetProvinces", http.StatusUnauthorized, "bad key"))

	n.mailer = newTestMailer(&sent, nil)
	n.NotifyGatewayTrip(context.Background(), statusError("GetProvinces", http.StatusUnauthorized, "bad key"))
	if len(sent) != 1 {
		t.Fatalf("sent = %d, want the retry to go through", len(sent))
	}
}

func TestGatewayAlertBodyEscapesDetail(t *testing.T) {
	body := BuildGatewayAlertEmailBody(statusError("GetProvinces", http.StatusUnauthorized, "<script>x</script>"))
	if strings.Contains(body, "<script>") {
		t.Fatalf("error detail was not escaped: %s", body)
	}
}
