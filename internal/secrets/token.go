package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// tokenKey is the key the vendor access token is stored under inside the
// secret map.
const tokenKey = "access_token"

// TokenSource resolves the vendor access token. A token set directly in
// the environment wins; otherwise the named secret is fetched from the
// provider and cached for ttl.
type TokenSource struct {
	logger     *zap.Logger
	provider   Provider
	envToken   string
	secretName string

	mu      sync.Mutex
	cached  string
	expires time.Time
	ttl     time.Duration
}

// NewTokenSource builds a token source. provider may be nil when envToken
// is set.
func NewTokenSource(logger *zap.Logger, provider Provider, envToken, secretName string, ttl time.Duration) *TokenSource {
	return &TokenSource{
		logger:     logger,
		provider:   provider,
		envToken:   envToken,
		secretName: secretName,
		ttl:        ttl,
	}
}

// Token returns the access token, fetching and caching from the secrets
// provider when the environment did not supply one.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	if t.envToken != "" {
		return t.envToken, nil
	}
	if t.provider == nil || t.secretName == "" {
		return "", fmt.Errorf("no access token configured: set SQUARE_ACCESS_TOKEN or SQUARE_SECRET_NAME")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached != "" && time.Now().Before(t.expires) {
		return t.cached, nil
	}

	secret, err := t.provider.GetSecret(ctx, t.secretName)
	if err != nil {
		return "", fmt.Errorf("resolve access token: %w", err)
	}
	token := secret[tokenKey]
	if token == "" {
		return "", fmt.Errorf("secret [%s] has no %q entry", t.secretName, tokenKey)
	}

	t.cached = token
	t.expires = time.Now().Add(t.ttl)
	t.logger.Info("secrets.token_resolved", zap.String("secret", t.secretName))
	return token, nil
}
