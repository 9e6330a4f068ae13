package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
)

// CredentialChecker compares a login attempt against the configured
// account. It returns domain.ErrInvalidCredentials on mismatch.
type CredentialChecker interface {
	Check(username, password string) error
}

type AuthUC struct {
	Credentials CredentialChecker
	Tokens      domain.TokenIssuer
}

func (uc *AuthUC) Login(ctx context.Context, cmd LoginCommand) (Response[*LoginDTO], error) {
	if err := ctx.Err(); err != nil {
		return Response[*LoginDTO]{}, err
	}
	if err := uc.Credentials.Check(cmd.Username, cmd.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			log.Warn().Str("username", cmd.Username).Msg("login rejected")
			return respond[*LoginDTO](nil, "", fail(KindUnauthorized, "Invalid username or password"))
		}
		return Response[*LoginDTO]{}, err
	}
	token, expires, err := uc.Tokens.Issue(cmd.Username)
	if err != nil {
		return Response[*LoginDTO]{}, err
	}
	return respond(&LoginDTO{Token: token, ExpiresAt: expires, Username: cmd.Username}, "Authentication successful", nil)
}
