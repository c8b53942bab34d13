package rostercache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/review"
	"github.com/redis/go-redis/v9"
)

// Cache keeps the assembled roster for a posting in Redis so reviewers do
// not refetch the whole posting after every status click. Reconciliation
// follows one strategy only: a committed transition is patched into the
// cached roster by application id (never by array position); anything else
// invalidates and the next read rebuilds from the record store.
// Rosters are stored as JSON under "roster:<postingID>" with a bounded TTL.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a roster cache. Prefix may be empty.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "roster:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(postingID string) string {
	return c.prefix + postingID
}

func (c *Cache) Put(ctx context.Context, r *review.Roster) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(r.PostingID), b, c.ttl).Err()
}

// Get returns the cached roster or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, postingID string) (*review.Roster, error) {
	b, err := c.client.Get(ctx, c.key(postingID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var r review.Roster
	if err := json.Unmarshal(b, &r); err != nil {
		// corrupted entry: drop it and report a miss
		_ = c.client.Del(ctx, c.key(postingID)).Err()
		return nil, nil
	}
	return &r, nil
}

// PatchStatus applies a committed transition to the cached roster entry with
// the given application id and recomputes the derived counts. Returns false
// when there is nothing cached to patch (callers then fall back to a full
// rebuild on the next read).
func (c *Cache) PatchStatus(ctx context.Context, postingID, appID string, status application.Status) (bool, error) {
	r, err := c.Get(ctx, postingID)
	if err != nil || r == nil {
		return false, err
	}
	patched := false
	for i := range r.Entries {
		if r.Entries[i].ApplicationID == appID {
			r.Entries[i].Status = status.Normalize()
			patched = true
			break
		}
	}
	if !patched {
		// the cached roster predates this application; force a rebuild
		return false, c.Invalidate(ctx, postingID)
	}
	r.Counts = review.Recount(r.Entries)
	return true, c.Put(ctx, r)
}

func (c *Cache) Invalidate(ctx context.Context, postingID string) error {
	return c.client.Del(ctx, c.key(postingID)).Err()
}
