// Package auth verifies access tokens issued by the external identity
// provider and exposes the role model used for authorization decisions.
// Signing keys are fetched from the provider's JWKS endpoint and cached
// with a configurable TTL.
package auth

import (
	"context"
	"errors"
	"net/url"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/yukikurage/earn-your-wings-api/internal/config"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
)

// RoleClaimKey is the custom claim the identity provider stamps the
// service role into.
const RoleClaimKey = "https://earnyourwings.app/role"

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrKeysUnavailable = errors.New("identity provider keys are unavailable")
)

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	Subject string
	Email   string
	Role    models.Role
}

// CustomClaims carries the provider-specific claims we care about.
type CustomClaims struct {
	Role  string `json:"https://earnyourwings.app/role"`
	Email string `json:"https://earnyourwings.app/email"`
}

// Validate implements validator.CustomClaims. The role claim is optional;
// an absent or unknown role downgrades to participant rather than failing
// verification.
func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// Verifier validates RS256 tokens against the provider's cached key set.
// When no provider domain is configured (local development) verification is
// disabled and the middleware falls back to unauthenticated identities.
type Verifier struct {
	validator *validator.Validator
	enabled   bool
}

func NewVerifier(cfg *config.Config) (*Verifier, error) {
	if cfg.AuthDomain == "" {
		return &Verifier{enabled: false}, nil
	}

	issuerURL, err := url.Parse("https://" + cfg.AuthDomain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, cfg.JWKSCacheTTL)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.AuthAudience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Verifier{
		validator: jwtValidator,
		enabled:   true,
	}, nil
}

// Enabled reports whether token verification is active.
func (v *Verifier) Enabled() bool {
	return v.enabled
}

// Verify checks signature, issuer, audience and expiry, and extracts the
// caller's identity. A failure to reach the provider's JWKS endpoint is
// reported as ErrKeysUnavailable so callers can answer 503 instead of 401.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	claims, err := v.validator.ValidateToken(ctx, rawToken)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, ErrKeysUnavailable
		}
		return nil, ErrInvalidToken
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	identity := &Identity{
		Subject: validated.RegisteredClaims.Subject,
		Role:    models.RoleParticipant,
	}
	if custom, ok := validated.CustomClaims.(*CustomClaims); ok && custom != nil {
		identity.Role = models.ParseRole(custom.Role)
		identity.Email = custom.Email
	}

	return identity, nil
}
