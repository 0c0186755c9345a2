package aws

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretGetter resolves a named secret to its string value.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

type cachedSecret struct {
	value     string
	fetchedAt time.Time
}

// SecretsClient reads plaintext secrets from Secrets Manager and keeps them
// for cacheTTL so config reloads do not hit the API on every lookup.
type SecretsClient struct {
	client   *secretsmanager.Client
	cacheTTL time.Duration

	mu    sync.Mutex
	cache map[string]cachedSecret
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		client:   secretsmanager.NewFromConfig(cfg),
		cacheTTL: 5 * time.Minute,
		cache:    make(map[string]cachedSecret),
	}
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	hit, ok := s.cache[name]
	s.mu.Unlock()
	if ok && time.Since(hit.fetchedAt) < s.cacheTTL {
		return hit.value, nil
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("read secret %q: %w", name, err)
	}

	var value string
	switch {
	case out.SecretString != nil:
		value = *out.SecretString
	case len(out.SecretBinary) > 0:
		value = string(out.SecretBinary)
	default:
		return "", fmt.Errorf("secret %q is empty", name)
	}

	s.mu.Lock()
	s.cache[name] = cachedSecret{value: value, fetchedAt: time.Now()}
	s.mu.Unlock()
	return value, nil
}
