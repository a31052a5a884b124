package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
)

// DefaultFetchCacheTTL はダウンロードした画像を保持する時間です。
const DefaultFetchCacheTTL = 30 * time.Minute

const fetcherName = "fetch"

// HTTPFetcher はURL参照の画像を取得し、同じURLへの再取得を避けるためにメモリへキャッシュします。
type HTTPFetcher struct {
	doer  Doer
	cache *cache.Cache
	ttl   time.Duration
}

// NewHTTPFetcher は HTTPFetcher を生成します。ttl が 0 以下なら DefaultFetchCacheTTL を使います。
func NewHTTPFetcher(doer Doer, ttl time.Duration) *HTTPFetcher {
	if ttl <= 0 {
		ttl = DefaultFetchCacheTTL
	}
	return &HTTPFetcher{
		doer:  doer,
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Fetch はURLの内容を取得します。
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if v, ok := f.cache.Get(url); ok {
		if data, ok := v.([]byte); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	resp, err := send(f.doer, fetcherName, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", domain.ErrBackendFailure, url, err)
	}
	f.cache.Set(url, data, f.ttl)
	return data, nil
}
