// Package content fetches display-ready records from the marketplace API.
// The remote responses are loosely shaped; everything is validated into a
// tagged Record before it crosses into the rest of the bot.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/artcast/artcast/internal/schedule"
)

const maxResponseLen = 1 << 20 // 1MB

// Record is the tagged variant for fetched content. Kind selects which
// field group is populated.
type Record struct {
	Kind schedule.FetchKind

	// artist fields
	Name       string
	Handle     string
	Bio        string
	AvatarURL  string
	ProfileURL string
	Followers  int64

	// nft listing fields
	Title      string
	Collection string
	Price      string
	Currency   string
	Seller     string
	ImageURL   string
	ListingURL string
}

// Provider fetches one record of the given kind. A nil record with a nil
// error means the source had nothing to offer right now.
type Provider interface {
	Fetch(ctx context.Context, kind schedule.FetchKind) (*Record, error)
}

// HTTPProvider is the marketplace-backed Provider.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context, kind schedule.FetchKind) (*Record, error) {
	var path string
	switch kind {
	case schedule.FetchArtist:
		path = "/artists/featured"
	case schedule.FetchNFT:
		path = "/listings/latest"
	default:
		return nil, fmt.Errorf("unknown fetch kind %q", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "artcast/0.1")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketplace returned HTTP %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("marketplace returned invalid JSON for %s", path)
	}

	switch kind {
	case schedule.FetchArtist:
		return parseArtist(body)
	default:
		return parseListing(body)
	}
}

// parseArtist maps the artist payload into a Record. The API nests the
// artist under "artist" or "data" depending on endpoint version.
func parseArtist(body []byte) (*Record, error) {
	root := gjson.ParseBytes(body)
	node := root
	for _, key := range []string{"artist", "data"} {
		if v := root.Get(key); v.Exists() {
			node = v
			break
		}
	}

	rec := &Record{
		Kind:       schedule.FetchArtist,
		Name:       node.Get("name").String(),
		Handle:     node.Get("handle").String(),
		Bio:        node.Get("bio").String(),
		AvatarURL:  node.Get("avatarUrl").String(),
		ProfileURL: node.Get("profileUrl").String(),
		Followers:  node.Get("followers").Int(),
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("artist payload missing name")
	}
	return rec, nil
}

// parseListing maps the NFT listing payload into a Record. Listings arrive
// either as a bare object or as the first element of "listings"/"data".
func parseListing(body []byte) (*Record, error) {
	root := gjson.ParseBytes(body)
	node := root
	for _, key := range []string{"listings.0", "data.0", "listing", "data"} {
		if v := root.Get(key); v.Exists() && v.IsObject() {
			node = v
			break
		}
	}

	rec := &Record{
		Kind:       schedule.FetchNFT,
		Title:      node.Get("title").String(),
		Collection: node.Get("collection").String(),
		Price:      node.Get("price").String(),
		Currency:   node.Get("currency").String(),
		Seller:     node.Get("seller").String(),
		ImageURL:   node.Get("imageUrl").String(),
		ListingURL: node.Get("url").String(),
	}
	if rec.Title == "" {
		rec.Title = node.Get("name").String()
	}
	if rec.Title == "" {
		return nil, fmt.Errorf("listing payload missing title")
	}
	return rec, nil
}
