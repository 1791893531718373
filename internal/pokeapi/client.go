// Package pokeapi provides a client for the PokeAPI GraphQL endpoint and the
// sprite host it links to.
package pokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/pokemonsay/internal/httpc"
	"github.com/llehouerou/pokemonsay/internal/log"
	"github.com/llehouerou/pokemonsay/internal/pokemon"
)

// DefaultEndpoint is the public PokeAPI GraphQL endpoint.
// It is rate limited to 200 calls per hour.
const DefaultEndpoint = "https://graphql.pokeapi.co/v1beta2"

// Client talks to PokeAPI over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	query      string
	randN      func(n int64) int64
}

var (
	_ pokemon.Source       = (*Client)(nil)
	_ pokemon.SpriteSource = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithQuery overrides the query used by Random. It receives a single
// $random_offset variable.
func WithQuery(query string) Option {
	return func(c *Client) {
		if query != "" {
			c.query = query
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRand replaces the source of random offsets. randN must return a value
// in [0, n).
func WithRand(randN func(n int64) int64) Option {
	return func(c *Client) { c.randN = randN }
}

// New creates a new PokeAPI client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: httpc.New(30 * time.Second),
		endpoint:   DefaultEndpoint,
		query:      DefaultQuery,
		randN:      rand.Int64N,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LastID returns the id of the highest ordered pokemon.
func (c *Client) LastID(ctx context.Context) (int64, error) {
	var resp graphQLResponse[pokemonList[lastPokemonFields]]
	if err := c.post(ctx, graphQLRequest{Query: lastPokemonQuery}, &resp); err != nil {
		return 0, err
	}
	if resp.Data == nil || len(resp.Data.Pokemon) == 0 {
		return 0, fmt.Errorf("last pokemon%s: %w", resp.describeErrors(), pokemon.ErrNotFound)
	}
	return resp.Data.Pokemon[0].ID, nil
}

// Random picks a uniformly random offset in [0, LastID] and returns the
// pokemon found there. LastID is queried on every call.
func (c *Client) Random(ctx context.Context) (pokemon.Record, error) {
	last, err := c.LastID(ctx)
	if err != nil {
		return pokemon.Record{}, err
	}
	if last < 0 {
		return pokemon.Record{}, fmt.Errorf("last pokemon id %d: %w", last, pokemon.ErrNotFound)
	}

	offset := c.randN(last + 1)
	log.Debug("querying pokemon", "last_id", last, "random_offset", offset)

	req := graphQLRequest{
		Query:     c.query,
		Variables: map[string]any{"random_offset": offset},
	}
	var resp graphQLResponse[pokemonList[pokemonFields]]
	if err := c.post(ctx, req, &resp); err != nil {
		return pokemon.Record{}, err
	}

	return toRecord(&resp, offset)
}

func (r *graphQLResponse[T]) describeErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return " (" + strings.Join(msgs, "; ") + ")"
}

func toRecord(r *graphQLResponse[pokemonList[pokemonFields]], offset int64) (pokemon.Record, error) {
	if r.Data == nil || len(r.Data.Pokemon) == 0 {
		return pokemon.Record{}, fmt.Errorf("pokemon at offset %d%s: %w", offset, r.describeErrors(), pokemon.ErrNotFound)
	}
	p := r.Data.Pokemon[0]
	if p.PokemonSpecy == nil || len(p.PokemonSpecy.PokemonSpeciesNames) == 0 {
		return pokemon.Record{}, fmt.Errorf("species name at offset %d: %w", offset, pokemon.ErrNotFound)
	}
	if len(p.PokemonSprites) == 0 || p.PokemonSprites[0].Sprites == nil {
		return pokemon.Record{}, fmt.Errorf("sprites at offset %d: %w", offset, pokemon.ErrNotFound)
	}
	return pokemon.Record{
		Name:      p.PokemonSpecy.PokemonSpeciesNames[0].Name,
		SpriteURL: *p.PokemonSprites[0].Sprites,
	}, nil
}

func (c *Client) post(ctx context.Context, body graphQLRequest, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", httpc.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request: %w", pokemon.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: graphql status %s: %s", pokemon.ErrTransport, resp.Status, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", pokemon.ErrTransport, err)
	}
	return nil
}

// Sprite downloads the image at url.
func (c *Client) Sprite(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", pokemon.ErrTransport, err)
	}
	req.Header.Set("User-Agent", httpc.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %w", pokemon.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sprite status %s", pokemon.ErrTransport, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read sprite: %w", pokemon.ErrTransport, err)
	}
	log.Debug("downloaded sprite", "url", url, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}
