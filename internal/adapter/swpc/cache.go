package swpc

import (
	"net/http"
	"sync"
)

// cachedResponse is the last successful body for a URL together with the
// validators needed for a conditional request.
type cachedResponse struct {
	etag         string
	lastModified string
	body         []byte
}

func (r cachedResponse) apply(req *http.Request) {
	if r.etag != "" {
		req.Header.Set("If-None-Match", r.etag)
	}
	if r.lastModified != "" {
		req.Header.Set("If-Modified-Since", r.lastModified)
	}
}

// validatorCache keeps one entry per feed URL. Entries without a validator are
// not stored since they can never be revalidated.
type validatorCache struct {
	mu      sync.Mutex
	entries map[string]cachedResponse
}

func newValidatorCache() *validatorCache {
	return &validatorCache{entries: make(map[string]cachedResponse)}
}

func (c *validatorCache) get(url string) (cachedResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[url]
	return r, ok
}

func (c *validatorCache) put(url string, r cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.etag == "" && r.lastModified == "" {
		delete(c.entries, url)
		return
	}
	c.entries[url] = r
}
