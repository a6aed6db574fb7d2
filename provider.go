package bnk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"golang.org/x/time/rate"
)

// ContentID addresses a bank inside an asset archive.
type ContentID uint32

// ParseContentID parses a hexadecimal id with an optional 0x prefix.
func ParseContentID(s string) (ContentID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid content id %q: %w", s, err)
	}

	return ContentID(v), nil
}

func (id ContentID) String() string {
	return fmt.Sprintf("%08X", uint32(id))
}

// ContentProvider supplies raw bank bytes by content id.
type ContentProvider interface {
	Read(ctx context.Context, id ContentID) ([]byte, error)
}

// DirProvider reads banks stored as <Dir>/<ID>.bnk.
type DirProvider struct {
	Dir string
}

// Read implements ContentProvider.
func (p DirProvider) Read(ctx context.Context, id ContentID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(p.Dir, id.String()+".bnk"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("bank %s: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read bank %s: %w", id, err)
	}

	return data, nil
}

// HTTPProvider fetches banks with GET <BaseURL>/<ID>. Requests are retried
// by the underlying client.
type HTTPProvider struct {
	client  *httpkit.Client
	baseURL string
	limiter *rate.Limiter
}

// NewHTTPProvider creates a provider for the given base URL.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		client:  httpkit.New(timeout),
		baseURL: baseURL,
	}
}

// WithRateLimit caps the request rate. A zero limit removes the cap.
func (p *HTTPProvider) WithRateLimit(limit rate.Limit, burst int) *HTTPProvider {
	if limit == 0 {
		p.limiter = nil
		return p
	}

	p.limiter = rate.NewLimiter(limit, max(burst, 1))

	return p
}

// Read implements ContentProvider.
func (p *HTTPProvider) Read(ctx context.Context, id ContentID) ([]byte, error) {
	u, err := url.JoinPath(p.baseURL, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to build url for bank %s: %w", id, err)
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	data, err := p.client.FetchBytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank %s: %w", id, err)
	}

	return data, nil
}
