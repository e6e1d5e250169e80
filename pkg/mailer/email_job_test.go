package mailer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	render := func(name string, data any) (string, string, string, error) {
		return "subj " + name, "text", "<p>html</p>", nil
	}

	plain := EmailJob{To: "a@b.c", Subject: "hi", Text: "body"}
	got, err := plain.Resolve(render)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	got, err = EmailJob{To: "a@b.c", Template: "password_reset"}.Resolve(render)
	require.NoError(t, err)
	assert.Equal(t, "subj password_reset", got.Subject)
	assert.Equal(t, "<p>html</p>", got.HTML)

	_, err = EmailJob{Template: "x"}.Resolve(func(string, any) (string, string, string, error) {
		return "", "", "", errors.New("boom")
	})
	assert.Error(t, err)
}
