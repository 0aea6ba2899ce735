package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	sdk "github.com/nabu-3/sdkgen"
)

// CachedDescriber memoizes descriptors of an underlying Describer.
// Sibling lookups made while classifying a batch of tables hit the cache
// instead of the catalog. Table listings are never cached.
type CachedDescriber struct {
	Describer
	cache sdk.Cache
	ttl   time.Duration
}

// Cached wraps d with c. A zero ttl keeps entries until Invalidate.
func Cached(d Describer, c sdk.Cache, ttl time.Duration) *CachedDescriber {
	return &CachedDescriber{Describer: d, cache: c, ttl: ttl}
}

// Describe returns the cached descriptor of table or describes and stores
// it. Each call returns a fresh copy. Missing tables are not cached.
func (d *CachedDescriber) Describe(ctx context.Context, table, schema string) (*Descriptor, error) {
	key := sdk.CacheKey{Schema: schema, Table: table}.String()
	data, err := d.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("nabu: cache get %s: %w", key, err)
	}
	if data != nil {
		desc := &Descriptor{}
		if err := msgpack.Unmarshal(data, desc); err == nil {
			return desc, nil
		}
		// A corrupt entry is described again and overwritten.
	}
	desc, err := d.Describer.Describe(ctx, table, schema)
	if err != nil {
		return nil, err
	}
	if data, err = msgpack.Marshal(desc); err != nil {
		return nil, fmt.Errorf("nabu: encode %s: %w", key, err)
	}
	if err := d.cache.Set(ctx, key, data, d.ttl); err != nil {
		return nil, fmt.Errorf("nabu: cache set %s: %w", key, err)
	}
	return desc.Clone(), nil
}

// Invalidate drops every cached descriptor of schema.
func (d *CachedDescriber) Invalidate(ctx context.Context, schema string) error {
	return d.cache.DeletePrefix(ctx, sdk.CacheKey{Schema: schema}.Prefix())
}
