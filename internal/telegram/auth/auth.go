// Package auth — терминальный аутентификатор (auth.UserAuthenticator) для входа
// в аккаунт: код подтверждения, 2FA без эха, согласие с ToS и регистрация.
package auth

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"

	"peerwatch/internal/infra/pr"
)

// TerminalAuthenticator собирает ввод из терминала через pr.
type TerminalAuthenticator struct {
	PhoneNumber string
}

var _ auth.UserAuthenticator = TerminalAuthenticator{}

// Phone возвращает номер из конфигурации; формат не проверяется.
func (t TerminalAuthenticator) Phone(_ context.Context) (string, error) {
	if t.PhoneNumber == "" {
		return "", errors.New("phone number is empty")
	}
	return t.PhoneNumber, nil
}

func (t TerminalAuthenticator) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return pr.ReadLine("Enter the code from Telegram: ")
}

// Password читает пароль 2FA без отображения символов.
func (t TerminalAuthenticator) Password(_ context.Context) (string, error) {
	pr.Print("Enter 2FA password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	pr.Println()
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(password), nil
}

// AcceptTermsOfService принимает только ответ y/Y.
func (t TerminalAuthenticator) AcceptTermsOfService(_ context.Context, tos tg.HelpTermsOfService) error {
	pr.Printf("Telegram Terms of Service: %s\n", tos.Text)
	resp, err := pr.ReadLine("Do you accept? (y/n): ")
	if err != nil {
		return err
	}
	if resp != "y" && resp != "Y" {
		return errors.New("user did not accept terms of service")
	}
	return nil
}

func (t TerminalAuthenticator) SignUp(_ context.Context) (auth.UserInfo, error) {
	firstName, err := pr.ReadLine("Enter your first name: ")
	if err != nil {
		return auth.UserInfo{}, err
	}
	// Фамилия необязательна.
	lastName, _ := pr.ReadLine("Enter your last name (optional): ")
	return auth.UserInfo{FirstName: firstName, LastName: lastName}, nil
}
