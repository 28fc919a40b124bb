package auth_test

import (
	"context"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerwatch/internal/telegram/auth"
)

func TestPhone(t *testing.T) {
	t.Parallel()

	phone, err := auth.TerminalAuthenticator{PhoneNumber: "+15550000"}.Phone(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "+15550000", phone)

	_, err = auth.TerminalAuthenticator{}.Phone(context.Background())
	assert.Error(t, err)
}

func TestPromptsWithoutTerminal(t *testing.T) {
	t.Parallel()

	a := auth.TerminalAuthenticator{}
	_, err := a.Code(context.Background(), &tg.AuthSentCode{})
	assert.Error(t, err)
	assert.Error(t, a.AcceptTermsOfService(context.Background(), tg.HelpTermsOfService{Text: "tos"}))
}
