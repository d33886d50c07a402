package email

import (
	"context"
	"mime"
	"net"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Mailer = (*SMTPMailer)(nil)

const injectedSubject = "Water cut\r\nBcc: attacker@evil.com"

func headerLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	head, _, _ := strings.Cut(raw, "\n\n")
	return strings.Split(head, "\n")
}

func TestBuildMessage_SubjectCannotAddHeaders(t *testing.T) {
	msg := buildMessage("Hostel Office", "office@iiitdmj.ac.in", injectedSubject, "<p>hi</p>")

	lines := headerLines(string(msg))
	assert.Len(t, lines, 5)
	for _, line := range lines {
		assert.False(t, strings.HasPrefix(strings.ToLower(line), "bcc:"), line)
	}

	parsed, err := mail.ReadMessage(strings.NewReader(string(msg)))
	require.NoError(t, err)
	assert.Empty(t, parsed.Header.Get("Bcc"))

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, injectedSubject, subject)
}

func TestBuildMessage_PlainSubjectUnchanged(t *testing.T) {
	msg := buildMessage("Hostel Office", "office@iiitdmj.ac.in", "Mess timings", "<p>hi</p>")
	assert.Contains(t, headerLines(string(msg)), "Subject: Mess timings")
}

// smtpResponder answers just enough SMTP for one delivery and records the
// DATA it receives.
func smtpResponder(t *testing.T, ln net.Listener, received chan<- string) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb, _, _ := strings.Cut(line, " ")
		switch strings.ToUpper(verb) {
		case "EHLO":
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 8BITMIME")
		case "DATA":
			_ = tp.PrintfLine("354 end with <CRLF>.<CRLF>")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			received <- string(data)
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func testMailer(t *testing.T, ln net.Listener) *SMTPMailer {
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	return NewSMTPMailer(SMTPConfig{
		Host:      host,
		Port:      portNum,
		Username:  "office",
		Password:  "secret",
		FromName:  "Hostel Office",
		FromEmail: "office@iiitdmj.ac.in",
	}, zerolog.Nop())
}

func TestSMTPMailer_SendNotification(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go smtpResponder(t, ln, received)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = testMailer(t, ln).SendNotification(ctx, []string{"200101001@iiitdmj.ac.in"}, injectedSubject, "No water 2-4pm")
	require.NoError(t, err)

	select {
	case data := <-received:
		for _, line := range headerLines(data) {
			assert.False(t, strings.HasPrefix(strings.ToLower(line), "bcc:"), line)
		}
		assert.Contains(t, data, "No water 2-4pm")
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestSMTPMailer_StalledServerHitsDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var mu sync.Mutex
	var held []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, conn)
			mu.Unlock()
		}
	}()
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			c.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = testMailer(t, ln).SendNotification(ctx, []string{"200101001@iiitdmj.ac.in"}, "Mess timings", "Dinner at 8")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSMTPMailer_UnconfiguredSkipsSend(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{Host: "smtp.invalid"}, zerolog.Nop())
	assert.NoError(t, mailer.SendNotification(context.Background(), []string{"a@iiitdmj.ac.in"}, "s", "m"))
}
