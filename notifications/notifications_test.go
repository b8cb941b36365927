package notifications

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
)

// captura lo recibido por el servidor SMTP de prueba.
type smtpCaptura struct {
	mu     sync.Mutex
	rcpt   []string
	cuerpo string
}

// fakeSMTP levanta un servidor SMTP mínimo en un puerto libre: acepta una
// sesión, responde lo justo para que net/smtp complete el envío y guarda
// destinatarios y cuerpo del mensaje.
func fakeSMTP(t *testing.T) (host, port string, cap *smtpCaptura) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	cap = &smtpCaptura{}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		write := func(s string) { conn.Write([]byte(s + "\r\n")) }
		write("220 fake.test ESMTP")

		br := bufio.NewReader(conn)
		enData := false
		var cuerpo strings.Builder
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")

			if enData {
				if line == "." {
					enData = false
					cap.mu.Lock()
					cap.cuerpo = cuerpo.String()
					cap.mu.Unlock()
					write("250 ok")
					continue
				}
				cuerpo.WriteString(line + "\n")
				continue
			}

			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 fake.test")
			case strings.HasPrefix(cmd, "RCPT TO"):
				cap.mu.Lock()
				cap.rcpt = append(cap.rcpt, line)
				cap.mu.Unlock()
				write("250 ok")
			case cmd == "DATA":
				enData = true
				write("354 adelante")
			case cmd == "QUIT":
				write("221 adios")
				return
			default:
				write("250 ok")
			}
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port, cap
}

func TestAvisoInstructor(t *testing.T) {
	host, port, cap := fakeSMTP(t)
	cfg := &config.Config{
		SMTPHost: host,
		SMTPPort: port,
		SMTPFrom: "circular120@test.local",
		SiteURL:  "https://circular.test",
	}

	limite := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, AvisoInstructor(cfg, "maria@test.local", "María", "F001", limite))

	cap.mu.Lock()
	defer cap.mu.Unlock()
	require.Len(t, cap.rcpt, 1)
	assert.Contains(t, cap.rcpt[0], "maria@test.local")
	assert.Contains(t, cap.cuerpo, "Ficha F001")
	assert.Contains(t, cap.cuerpo, "2024-07-01")
	assert.Contains(t, cap.cuerpo, "Hola María")
	assert.Contains(t, cap.cuerpo, "https://circular.test/aprendices/upload/")
}

func TestAvisoInstructorSinSMTP(t *testing.T) {
	err := AvisoInstructor(&config.Config{}, "x@y.z", "", "F1", time.Now())
	assert.Error(t, err)
}
