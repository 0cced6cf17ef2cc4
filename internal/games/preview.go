package games

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

const (
	ScryfallCardsURL   = "https://api.scryfall.com/cards/search"
	PokemonTCGCardsURL = "https://api.pokemontcg.io/v2/cards"
)

// previewAPI describes a card search endpoint returning a preview image.
type previewAPI struct {
	endpoint string
	query    func(r records.Record) string
	// image extracts the URL of the first hit; "" when there is none.
	image func(body []byte) (string, error)
}

var scryfallPreview = previewAPI{
	endpoint: ScryfallCardsURL,
	query: func(r records.Record) string {
		name := strings.ReplaceAll(r.Name, "&", "and")
		return fmt.Sprintf(`name:"%s" AND set:%s`, name, r.Set.ID)
	},
	image: func(body []byte) (string, error) {
		var resp struct {
			Data []struct {
				ImageURIs struct {
					Normal string `json:"normal"`
				} `json:"image_uris"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", err
		}
		if len(resp.Data) == 0 {
			return "", nil
		}
		return resp.Data[0].ImageURIs.Normal, nil
	},
}

var pokemonNameEscaper = strings.NewReplacer("&", "*", " EX", "-EX", " GX", "-GX")

var pokemonPreview = previewAPI{
	endpoint: PokemonTCGCardsURL,
	query: func(r records.Record) string {
		// The set number pins one artwork when a set has several.
		if r.SetNo != "" {
			return fmt.Sprintf(`id:"%s-%s"`, r.Set.ID, r.SetNo)
		}
		return fmt.Sprintf(`name:"%s" AND set.id:%s`, pokemonNameEscaper.Replace(r.Name), r.Set.ID)
	},
	image: func(body []byte) (string, error) {
		var resp struct {
			Data []struct {
				Images struct {
					Small string `json:"small"`
				} `json:"images"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", err
		}
		if len(resp.Data) == 0 {
			return "", nil
		}
		return resp.Data[0].Images.Small, nil
	},
}

// PreviewURL returns the search request for r's preview image.
func (b Binding) PreviewURL(r records.Record) string {
	return b.preview.endpoint + "?" + url.Values{"q": {b.preview.query(r)}}.Encode()
}

// Previewer looks up preview image URLs and remembers the answers for a
// while. Concurrent lookups of the same card share one request.
type Previewer struct {
	client *http.Client
	cache  *cache.Cache
	group  singleflight.Group
	log    logging.Logger
}

type PreviewerOption func(*Previewer)

func WithPreviewLogger(l logging.Logger) PreviewerOption {
	return func(p *Previewer) { p.log = l }
}

func NewPreviewer(client *http.Client, ttl time.Duration, opts ...PreviewerOption) *Previewer {
	if client == nil {
		client = http.DefaultClient
	}
	p := &Previewer{
		client: client,
		cache:  cache.New(ttl, 2*ttl),
		log:    logging.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Lookup returns the preview image URL of r, or "" when the game's API has
// no matching card. Failed requests are not remembered.
func (p *Previewer) Lookup(ctx context.Context, b Binding, r records.Record) (string, error) {
	reqURL := b.PreviewURL(r)
	if v, ok := p.cache.Get(reqURL); ok {
		return v.(string), nil
	}

	v, err, _ := p.group.Do(reqURL, func() (any, error) {
		img, err := p.fetch(ctx, b.preview, reqURL)
		if err != nil {
			return "", err
		}
		p.cache.Set(reqURL, img, cache.DefaultExpiration)
		return img, nil
	})
	if err != nil {
		p.log.Warn(ctx, "preview lookup failed", "game", b.Game, "name", r.Name, "err", err)
		return "", err
	}
	return v.(string), nil
}

func (p *Previewer) fetch(ctx context.Context, api previewAPI, reqURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to search card: %w", err)
	}
	defer resp.Body.Close()

	// scryfall answers a search without hits with 404.
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to search card: unexpected status %s", resp.Status)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode card search: %w", err)
	}
	img, err := api.image(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode card search: %w", err)
	}
	return img, nil
}

// Forget drops every remembered answer.
func (p *Previewer) Forget() {
	p.cache.Flush()
}
