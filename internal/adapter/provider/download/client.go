// Package download fetches the remote inputs of a build: raw hunspell word
// lists, pregenerated word and syllable pools, and hyphenation patterns.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/gibberify/internal/config"
	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/hyphen"
	"github.com/heartmarshall/gibberify/pkg/ctxutil"
)

// Client downloads build inputs. Requests are spaced by the configured pause
// and retried on network errors and 5xx responses.
type Client struct {
	cfg        config.DownloadConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// New creates a Client from cfg.
func New(cfg config.DownloadConfig, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.Pause > 0 {
		limit = rate.Every(cfg.Pause)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.With("adapter", "download"),
	}
}

// Raw returns the hunspell dictionary of lang: {raw_url}/{lang}/index.dic.
func (c *Client) Raw(ctx context.Context, lang string) ([]byte, error) {
	c.logger(ctx).InfoContext(ctx, "downloading raw data", slog.String("lang", lang))
	return c.fetch(ctx, join(c.cfg.RawURL, lang, "index.dic"))
}

// Words returns the pregenerated word pool of lang.
func (c *Client) Words(ctx context.Context, lang string) (domain.WordPool, error) {
	c.logger(ctx).InfoContext(ctx, "downloading pregenerated words", slog.String("lang", lang))
	body, err := c.fetch(ctx, join(c.cfg.DataURL, "words", lang+".json"))
	if err != nil {
		return nil, err
	}

	var words []string
	if err := json.Unmarshal(body, &words); err != nil {
		return nil, fmt.Errorf("download: decode words %s: %w", lang, err)
	}
	return domain.NewWordPool(words), nil
}

// Syllables returns the pregenerated syllable pool of lang.
func (c *Client) Syllables(ctx context.Context, lang string) (domain.SyllablePool, error) {
	c.logger(ctx).InfoContext(ctx, "downloading pregenerated syllables", slog.String("lang", lang))
	body, err := c.fetch(ctx, join(c.cfg.DataURL, "syllables", lang+".json"))
	if err != nil {
		return nil, err
	}

	pool, err := DecodeSyllables(body)
	if err != nil {
		return nil, fmt.Errorf("download: decode syllables %s: %w", lang, err)
	}
	return pool, nil
}

// Patterns returns the pyphen pattern file of lang. It satisfies
// hyphen.Source.
func (c *Client) Patterns(ctx context.Context, lang string) ([]byte, error) {
	name, ok := hyphen.FileName(lang)
	if !ok {
		return nil, fmt.Errorf("download: patterns %s: %w", lang, domain.ErrUnsupportedLanguage)
	}
	c.logger(ctx).InfoContext(ctx, "downloading hyphenation patterns", slog.String("lang", lang))
	return c.fetch(ctx, join(c.cfg.PatternsURL, name))
}

// DecodeSyllables accepts either a flat JSON list of syllables or an object
// of syllables bucketed by length.
func DecodeSyllables(data []byte) (domain.SyllablePool, error) {
	pool := domain.SyllablePool{}

	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		for _, s := range flat {
			pool.Add(s)
		}
		return pool, nil
	}

	var buckets map[string][]string
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, err
	}
	for k, syllables := range buckets {
		if _, err := strconv.Atoi(k); err != nil {
			return nil, fmt.Errorf("bucket %q is not a length", k)
		}
		for _, s := range syllables {
			pool.Add(s)
		}
	}
	return pool, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.doWithRetry(ctx, url)
	if err != nil {
		c.logger(ctx).ErrorContext(ctx, "download failed", slog.String("url", url), slog.String("error", err.Error()))
		return nil, fmt.Errorf("download: %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("download: %s: %w", url, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download: read %s: %w", url, err)
	}

	c.logger(ctx).DebugContext(ctx, "download complete", slog.String("url", url), slog.Int("bytes", len(body)))
	return body, nil
}

// doWithRetry executes the request, retrying on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, url string) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		if werr := c.limiter.Wait(ctx); werr != nil {
			return nil, werr
		}

		req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if rerr != nil {
			return nil, fmt.Errorf("create request: %w", rerr)
		}

		resp, err = c.httpClient.Do(req)
		shouldRetry := err != nil || resp.StatusCode >= 500
		if !shouldRetry || attempt >= c.cfg.Retries || ctx.Err() != nil {
			return resp, err
		}

		reason := "network error"
		if err == nil {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
			resp.Body.Close()
		}
		c.logger(ctx).WarnContext(ctx, "download retry", slog.String("url", url), slog.String("reason", reason))
	}
}

func join(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// logger tags records with the build run that triggered the download.
func (c *Client) logger(ctx context.Context) *slog.Logger {
	return ctxutil.Logger(ctx, c.log)
}
