// Package restcountries reads the country reference set from the public
// REST Countries v3.1 API.
package restcountries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/phenrril/backoffice/internal/domain"
)

const (
	DefaultBaseURL = "https://restcountries.com/v3.1/"
	fields         = "name,flags,cca2,cca3"
)

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit throttles outbound requests. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{baseURL: u, httpClient: &http.Client{Timeout: timeout}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type apiCountry struct {
	Cca2 string `json:"cca2"`
	Cca3 string `json:"cca3"`
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flags struct {
		PNG string `json:"png"`
	} `json:"flags"`
}

func (a apiCountry) toInfo() domain.CountryInfo {
	return domain.CountryInfo{
		Code:    strings.ToUpper(strings.TrimSpace(a.Cca2)),
		Alpha3:  strings.ToUpper(strings.TrimSpace(a.Cca3)),
		Name:    strings.TrimSpace(a.Name.Common),
		FlagURL: a.Flags.PNG,
	}
}

// FetchAll returns every country with a code, sorted by name.
func (c *Client) FetchAll(ctx context.Context) ([]domain.CountryInfo, error) {
	body, status, err := c.get(ctx, "all")
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrExternalUnavailable, status)
	}
	var raw []apiCountry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalMalformed, err)
	}
	out := make([]domain.CountryInfo, 0, len(raw))
	for _, a := range raw {
		info := a.toInfo()
		if info.Code == "" {
			continue
		}
		out = append(out, info)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *Client) FetchByCode(ctx context.Context, code string) (*domain.CountryInfo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrNotFound
	}
	body, status, err := c.get(ctx, "alpha/"+code)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		return nil, domain.ErrNotFound
	case status >= 300:
		return nil, fmt.Errorf("%w: status %d", domain.ErrExternalUnavailable, status)
	}

	// The alpha endpoint answers with an object, or with an array when the
	// field filter is ignored.
	var a apiCountry
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []apiCountry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExternalMalformed, err)
		}
		if len(list) == 0 {
			return nil, domain.ErrNotFound
		}
		a = list[0]
	} else if err := json.Unmarshal(trimmed, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalMalformed, err)
	}
	info := a.toInfo()
	if info.Code == "" {
		return nil, domain.ErrNotFound
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}
	u := c.baseURL.JoinPath(path)
	u.RawQuery = url.Values{"fields": {fields}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		log.Warn().Err(err).Str("url", u.String()).Msg("countries api unreachable")
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrExternalUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", domain.ErrExternalUnavailable, err)
	}
	if res.StatusCode >= 300 && res.StatusCode != http.StatusNotFound {
		log.Warn().Int("status", res.StatusCode).Str("url", u.String()).Msg("countries api error status")
	}
	return body, res.StatusCode, nil
}
