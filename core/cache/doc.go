// Package cache provides the response cache used by the search endpoint.
//
// A Cache wraps a Store (in-process memory, shared redis, or none) and adds a
// loader with singleflight stampede protection. Entries expire after the
// configured TTL, and the sync job purges the cache after a provider has been
// reconciled so readers see fresh data.
//
// # Usage
//
//	c, err := cache.New(cfg.Cache, logger)
//	body, err := c.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
//	    return json.Marshal(result)
//	})
package cache
