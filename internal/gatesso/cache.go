package gatesso

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	employeeNameKeyPrefix = "gate_sso:employee_name:"
	companyNameKeyPrefix  = "gate_sso:company_name:"
)

// NameCache keeps directory display names in Redis so enrichment reads
// survive short remote outages without a dblink round-trip per row.
type NameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNameCache constructs a NameCache. A nil client disables caching.
func NewNameCache(client *redis.Client, ttl time.Duration) *NameCache {
	return &NameCache{client: client, ttl: ttl}
}

// EmployeeName returns the cached display name, if any.
func (c *NameCache) EmployeeName(ctx context.Context, id uuid.UUID) (string, bool) {
	return c.get(ctx, employeeNameKeyPrefix+id.String())
}

// SetEmployeeName stores a display name.
func (c *NameCache) SetEmployeeName(ctx context.Context, id uuid.UUID, name string) {
	c.set(ctx, employeeNameKeyPrefix+id.String(), name)
}

// CompanyName returns the cached display name, if any.
func (c *NameCache) CompanyName(ctx context.Context, id uuid.UUID) (string, bool) {
	return c.get(ctx, companyNameKeyPrefix+id.String())
}

// SetCompanyName stores a display name.
func (c *NameCache) SetCompanyName(ctx context.Context, id uuid.UUID, name string) {
	c.set(ctx, companyNameKeyPrefix+id.String(), name)
}

func (c *NameCache) get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *NameCache) set(ctx context.Context, key, name string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key, name, c.ttl).Err()
}
