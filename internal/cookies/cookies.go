// Package cookies sources browser cookies for restricted downloads and
// writes them in the Netscape format the backend's --cookies flag expects.
package cookies

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"grabarr/internal/utils/logging"

	"github.com/browserutils/kooky"
	// Register all supported browser stores for kooky:
	_ "github.com/browserutils/kooky/browser/all"
	"golang.org/x/net/publicsuffix"
)

// Manager caches cookies per base domain.
type Manager struct {
	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
}

// NewManager initializes a cookie manager instance.
func NewManager() *Manager {
	return &Manager{
		cookies: make(map[string][]*http.Cookie),
	}
}

// GetCookies retrieves browser cookies for a given URL's base domain.
func (m *Manager) GetCookies(ctx context.Context, u string) ([]*http.Cookie, error) {
	domain, err := BaseDomain(u)
	if err != nil {
		return nil, fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	m.mu.RLock()
	if cookies, ok := m.cookies[domain]; ok {
		m.mu.RUnlock()
		return cookies, nil
	}
	m.mu.RUnlock()

	cookies := loadCookiesForDomain(ctx, domain)

	m.mu.Lock()
	m.cookies[domain] = cookies
	m.mu.Unlock()

	return cookies, nil
}

// loadCookiesForDomain loads the cookies associated with a particular domain.
func loadCookiesForDomain(ctx context.Context, domain string) []*http.Cookie {
	kookyCookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.Domain(domain))
	if err != nil {
		logging.D(2, "Failed reading cookies: %v", err)
		return nil
	}

	if len(kookyCookies) > 0 {
		logging.I("Found %d cookies for %s", len(kookyCookies), domain)
		return convertToHTTPCookies(kookyCookies)
	}

	logging.I("No cookies found for %s", domain)
	return nil
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
			Secure:  c.Secure,
		}
	}
	return httpCookies
}

// BaseDomain returns the base domain for an inputted URL.
func BaseDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return publicsuffix.EffectiveTLDPlusOne(u.Hostname())
}
