package email

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText(t *testing.T) {
	body := `<html><head><style>p{color:red}</style></head><body>
		<h2>Good news</h2>
		<p>Hello Ada,</p>
		<p>You were   shortlisted for <strong>Backend Intern</strong>.<br>See <a href="https://joblink.app/c/1">your conversation</a>.</p>
		<script>alert(1)</script>
	</body></html>`

	text, err := HTMLToText(body)
	require.NoError(t, err)

	assert.Contains(t, text, "Good news")
	assert.Contains(t, text, "Hello Ada,")
	assert.Contains(t, text, "You were shortlisted for Backend Intern.")
	assert.Contains(t, text, "See your conversation (https://joblink.app/c/1).")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "alert")
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage("JobLink", "noreply@joblink.app", "ada@example.com", "Update on your application", "<p>Hi</p>")
	require.NoError(t, err)

	s := string(msg)
	assert.Contains(t, s, "To: ada@example.com\r\n")
	assert.Contains(t, s, "<noreply@joblink.app>")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "text/plain; charset=UTF-8")
	assert.Contains(t, s, "text/html; charset=UTF-8")
	assert.True(t, strings.Index(s, "text/plain") < strings.Index(s, "text/html"))
}

func TestSendWithoutCredentialsIsNoop(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop())
	assert.False(t, m.Configured())
	assert.NoError(t, m.Send(context.Background(), "ada@example.com", "s", "<p>b</p>"))
}
