package mailer

import (
	"log"

	"gopkg.in/gomail.v2"
)

// Config는 SMTP 접속 정보입니다. Host가 비어 있으면 발송은 no-op입니다.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer는 알림 메일 발송기입니다.
// 호출자 입장에서 fire-and-forget이며, 실패는 로그로만 남깁니다.
type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send는 메일 1건을 동기 발송합니다.
func (m *Mailer) Send(to, subject, body, htmlBody string) error {
	if m.cfg.Host == "" {
		log.Printf("[INFO] 메일 발송 생략 (SMTP 미설정): to=%s subject=%s", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		log.Printf("[ERROR] 메일 발송 실패 (to=%s): %v", to, err)
		return err
	}
	return nil
}

// SendAsync는 요청 처리를 막지 않도록 고루틴에서 발송합니다.
func (m *Mailer) SendAsync(to, subject, body, htmlBody string) {
	go func() {
		_ = m.Send(to, subject, body, htmlBody)
	}()
}
