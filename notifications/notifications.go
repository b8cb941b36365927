// Package notifications envía los avisos de la Circular 120 por correo.
package notifications

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
)

// AvisoInstructor recuerda a un instructor subir las inasistencias de su
// ficha antes de la fecha límite. Con SMTP sin configurar devuelve error y
// el llamador decide si lo trata como fatal.
func AvisoInstructor(cfg *config.Config, email, nombre, fichaNumero string, fechaLimite time.Time) error {
	if cfg.SMTPHost == "" {
		return fmt.Errorf("smtp no configurado")
	}
	if nombre == "" {
		nombre = "Instructor"
	}
	link := "/aprendices/upload/"
	if cfg.SiteURL != "" {
		link = strings.TrimRight(cfg.SiteURL, "/") + link
	}

	subject := fmt.Sprintf("[Acción requerida] Subir inasistencias - Ficha %s", fichaNumero)
	body := fmt.Sprintf(
		"Hola %s,\r\n\r\n"+
			"Recuerde subir el reporte de inasistencias de la ficha %s antes del %s.\r\n"+
			"Puede hacerlo en: %s\r\n\r\n"+
			"Este es un aviso automático del seguimiento Circular 120.\r\n",
		nombre, fichaNumero, fechaLimite.Format("2006-01-02"), link,
	)

	msg := strings.Join([]string{
		"From: " + cfg.SMTPFrom,
		"To: " + email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{email}, []byte(msg))
}
