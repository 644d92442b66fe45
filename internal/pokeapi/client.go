package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	CacheTTL       = time.Hour
)

var (
	ErrEmptyName = errors.New("Please enter a Pokemon name")
	ErrNotFound  = errors.New("Pokemon not found")
	ErrFetch     = errors.New("Failed to search Pokemon")
)

type Sprites struct {
	FrontDefault *string `json:"front_default"`
	Other        *struct {
		OfficialArtwork *struct {
			FrontDefault *string `json:"front_default"`
		} `json:"official-artwork,omitempty"`
	} `json:"other,omitempty"`
}

type TypeSlot struct {
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

// Pokemon is the part of a catalog entry the app shows and saves.
type Pokemon struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Sprites Sprites    `json:"sprites"`
	Types   []TypeSlot `json:"types"`
	Height  int        `json:"height"`
	Weight  int        `json:"weight"`
}

// ImageURL prefers the official artwork and falls back to the default sprite.
func (p *Pokemon) ImageURL() string {
	if o := p.Sprites.Other; o != nil && o.OfficialArtwork != nil && o.OfficialArtwork.FrontDefault != nil {
		return *o.OfficialArtwork.FrontDefault
	}
	if p.Sprites.FrontDefault != nil {
		return *p.Sprites.FrontDefault
	}
	return ""
}

type entry struct {
	pokemon *Pokemon
	expires time.Time
}

// Client looks Pokemon up by name. Successful lookups are cached for CacheTTL.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]entry
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		now:     time.Now,
		cache:   make(map[string]entry),
	}
}

func (c *Client) Search(ctx context.Context, name string) (*Pokemon, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, ErrEmptyName
	}
	if p, ok := c.cached(key); ok {
		return p, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pokemon/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		log.Printf("Catalog lookup for %q failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case res.StatusCode != http.StatusOK:
		log.Printf("Catalog lookup for %q returned %d", key, res.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrFetch, res.StatusCode)
	}

	var p Pokemon
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	c.mu.Lock()
	c.cache[key] = entry{pokemon: &p, expires: c.now().Add(CacheTTL)}
	c.mu.Unlock()
	return &p, nil
}

func (c *Client) cached(key string) (*Pokemon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.cache, key)
		return nil, false
	}
	return e.pokemon, true
}
