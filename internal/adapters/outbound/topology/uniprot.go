package topology

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/cache"
	"github.com/dockcheck/dockcheck/internal/domain"
)

const (
	cacheNamespace = "uniprot"
	memoSize       = 256
	requestTimeout = 30 * time.Second
)

// UniProt fetches entries from the UniProt REST API. Entries are kept in an
// in-process LRU and, when a disk cache is configured, on disk.
type UniProt struct {
	baseURL string
	client  *http.Client
	disk    *cache.Store
	memo    *lru.Cache[string, []byte]
	logger  *slog.Logger
}

type Option func(*UniProt)

// WithDiskCache stores fetched entries in s.
func WithDiskCache(s *cache.Store) Option {
	return func(u *UniProt) { u.disk = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(u *UniProt) {
		if l != nil {
			u.logger = l
		}
	}
}

// NewUniProt creates a client for baseURL, or the public endpoint when empty.
func NewUniProt(baseURL string, opts ...Option) *UniProt {
	if baseURL == "" {
		baseURL = domain.DefaultUniProtURL
	}
	memo, _ := lru.New[string, []byte](memoSize)
	u := &UniProt{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		memo:    memo,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Topology fetches accession and translates its features. Without an
// explicit alignmentRegion the alignment defaults to ECL1.
func (u *UniProt) Topology(ctx context.Context, accession, alignmentRegion string, cutoff int) (domain.Topology, error) {
	body, err := u.Entry(ctx, accession)
	if err != nil {
		return domain.Topology{}, err
	}
	doc, err := Decode(body)
	if err != nil {
		return domain.Topology{}, fmt.Errorf("%s: %w", accession, err)
	}
	if doc.Kind != KindFeatures || !doc.HasTopologyFeatures() {
		return domain.Topology{}, fmt.Errorf("%w: no topology annotations found for %s", domain.ErrTopologySource, accession)
	}

	if alignmentRegion == "" {
		alignmentRegion = domain.DefaultRemoteAlignment
	}
	t := doc.Topology(alignmentRegion, cutoff)
	if len(t.Extracellular) == 0 && len(t.Transmembrane) == 0 {
		return domain.Topology{}, fmt.Errorf("%w: no extracellular or transmembrane regions found for %s", domain.ErrTopologySource, accession)
	}
	t.Source = "UniProt:" + accession
	if t.ProteinName == "" {
		t.ProteinName = accession
	}
	u.logger.Info("loaded topology", "accession", accession, "protein", t.ProteinName, "regions", t.Summary())
	return t, nil
}

// Entry returns the raw JSON entry for accession, consulting the in-process
// and disk caches before the network.
func (u *UniProt) Entry(ctx context.Context, accession string) ([]byte, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return nil, fmt.Errorf("%w: empty UniProt accession", domain.ErrTopologySource)
	}
	key := strings.ToUpper(accession)

	if body, ok := u.memo.Get(key); ok {
		return body, nil
	}
	if u.disk != nil {
		body, err := u.disk.Load(cacheNamespace, key)
		if err != nil {
			u.logger.Warn("reading topology cache", "accession", key, "error", err)
		}
		if body != nil {
			u.logger.Debug("topology cache hit", "accession", key)
			u.memo.Add(key, body)
			return body, nil
		}
	}

	body, err := u.fetch(ctx, accession)
	if err != nil {
		return nil, err
	}
	u.memo.Add(key, body)
	if u.disk != nil {
		if err := u.disk.Save(cacheNamespace, key, body); err != nil {
			u.logger.Warn("writing topology cache", "accession", key, "error", err)
		}
	}
	return body, nil
}

func (u *UniProt) fetch(ctx context.Context, accession string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s.json", u.baseURL, url.PathEscape(accession))
	u.logger.Info("fetching topology from UniProt", "accession", accession)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTopologySource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: network error fetching UniProt data: %v", domain.ErrTopologySource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: UniProt accession not found: %s", domain.ErrTopologySource, accession)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: failed to fetch from UniProt: http status %d", domain.ErrTopologySource, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading UniProt response: %v", domain.ErrTopologySource, err)
	}
	if isGzip(body) {
		if body, err = gunzip(body); err != nil {
			return nil, fmt.Errorf("%w: decompressing UniProt response: %v", domain.ErrTopologySource, err)
		}
	}
	return body, nil
}

func isGzip(body []byte) bool {
	return len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b
}

func gunzip(body []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
