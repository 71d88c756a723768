package secrets

import "context"

// Provider fetches a named secret as a key-value map. Concrete
// implementations (AWS, GCP, etc.) can satisfy this.
type Provider interface {
	GetSecret(ctx context.Context, name string) (map[string]string, error)
}
