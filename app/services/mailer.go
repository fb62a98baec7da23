package services

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"sync"

	"go.uber.org/zap"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config Config
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
		send:   smtp.SendMail,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var msg string
	for _, h := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", h[0], h[1])
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := m.send(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("gagal mengirim email HTML: %w", err)
	}
	return nil
}

// GatewayAlertNotifier emails the operator when RajaOngkir rejects the API key.
// Outages are only logged; a rejected key needs a redeploy, so it gets a mail.
type GatewayAlertNotifier struct {
	mailer *Mailer
	to     string
	logger *zap.Logger

	mu   sync.Mutex
	sent bool
}

func NewGatewayAlertNotifier(mailer *Mailer, to string, logger *zap.Logger) *GatewayAlertNotifier {
	return &GatewayAlertNotifier{mailer: mailer, to: to, logger: logger}
}

func (n *GatewayAlertNotifier) NotifyGatewayTrip(ctx context.Context, gerr *GatewayError) {
	if gerr == nil || gerr.Kind != GatewayUnauthorized || n.to == "" {
		return
	}

	n.mu.Lock()
	if n.sent {
		n.mu.Unlock()
		return
	}
	n.sent = true
	n.mu.Unlock()

	body := BuildGatewayAlertEmailBody(gerr)
	if err := n.mailer.SendHTMLEmail(n.to, "[Pisang Ijo Evi] Kunci API RajaOngkir ditolak", body); err != nil {
		n.logger.Error("GatewayAlertNotifier: failed to send alert email", zap.String("to", n.to), zap.Error(err))
		n.mu.Lock()
		n.sent = false
		n.mu.Unlock()
		return
	}
	n.logger.Info("GatewayAlertNotifier: alert email sent", zap.String("to", n.to))
}

func BuildGatewayAlertEmailBody(gerr *GatewayError) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Kunci API RajaOngkir Ditolak</title>
        </head>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <h2>Kunci API RajaOngkir ditolak</h2>
            <p>Layanan ongkos kirim menerima status <strong>%d</strong> saat memanggil <code>%s</code>.</p>
            <p>Semua ongkir sekarang memakai estimasi cadangan sampai kunci API diganti dan layanan di-deploy ulang
            atau breaker di-reset lewat <code>POST /api/shipping/gateway/reset</code>.</p>
            <p style="color:#777; font-size: 0.8em;">Detail: %s</p>
        </body>
        </html>
    `, gerr.StatusCode, html.EscapeString(gerr.Op), html.EscapeString(gerr.Error()))
}
