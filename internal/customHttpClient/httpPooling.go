package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/skandula/DocChatAPI/internal/config"
)

var (
	once   sync.Once
	pooled *http.Client
)

// Pooled returns the shared outbound client. The embedding and LLM providers
// all talk to the same hosts repeatedly, so they share one keep-alive pool.
func Pooled() *http.Client {
	once.Do(func() {
		pooled = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return pooled
}
