// Package firebase verifies Firebase ID tokens with the Firebase Admin SDK.
package firebase

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// Config holds Firebase Admin settings.
type Config struct {
	CredentialsFile string
	ProjectID       string
	CheckRevoked    bool
}

// tokenClient is the slice of *auth.Client the verifier needs.
type tokenClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier checks ID token signatures and expiry against Google's public keys.
type Verifier struct {
	client       tokenClient
	checkRevoked bool
}

// NewVerifier initializes the Firebase app once. A missing credentials file is a
// configuration error, not an invalid token.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("firebase credentials file is not set: %w", domain.ErrConfiguration)
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w: %w", err, domain.ErrConfiguration)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w: %w", err, domain.ErrConfiguration)
	}

	return &Verifier{client: client, checkRevoked: cfg.CheckRevoked}, nil
}

// VerifyIDToken validates the token and returns its claims. Errors are returned
// as-is; callers decide how much of the cause to disclose.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (domain.Claims, error) {
	var (
		tok *auth.Token
		err error
	)
	if v.checkRevoked {
		tok, err = v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		tok, err = v.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return domain.Claims{}, fmt.Errorf("verify id token: %w", err)
	}
	return toClaims(tok), nil
}

func toClaims(tok *auth.Token) domain.Claims {
	subject := tok.Subject
	if subject == "" {
		subject = tok.UID
	}
	return domain.Claims{
		Subject:   subject,
		Issuer:    tok.Issuer,
		Audience:  tok.Audience,
		IssuedAt:  unix(tok.IssuedAt),
		ExpiresAt: unix(tok.Expires),
		AuthTime:  unix(tok.AuthTime),
		Custom:    tok.Claims,
	}
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
