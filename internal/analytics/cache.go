package analytics

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// store wraps the analytics cache namespace. Entries live for the
// configured TTL; Invalidate drops the whole namespace at once rather than
// tracking individual keys, which is the right trade for a workload with
// rare writes and frequent dashboard reads.
type store struct {
	cache *gocache.Cache
}

func newStore(ttl time.Duration) *store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &store{cache: gocache.New(ttl, 2*ttl)}
}

func (s *store) get(key string) (any, bool) {
	return s.cache.Get(key)
}

func (s *store) set(key string, value any) {
	s.cache.SetDefault(key, value)
}

func (s *store) flush() {
	s.cache.Flush()
}

// cacheKey builds a deterministic key from a metric name and its normalized
// arguments: keys are sorted before hashing so argument order never splits
// the cache.
func cacheKey(name string, args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v, _ := json.Marshal(args[k])
		fmt.Fprintf(&b, "%s=%s;", k, v)
	}
	sum := md5.Sum([]byte(b.String()))
	return fmt.Sprintf("analytics:%s:%s", name, hex.EncodeToString(sum[:]))
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
