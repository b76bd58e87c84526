package typed

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	coc_client "github.com/miguelcb84/go-coc-client"
	"github.com/miguelcb84/go-coc-client/core"
)

// Client provides typed access to the most used API resources. Failed calls are
// returned as *core.ApiError and malformed bodies as *core.MalformedError.
type Client struct {
	// Untyped provides access to the underlying fluent client when needed
	Untyped *coc_client.ClashOfClans

	validate *validator.Validate
}

// NewClient creates a new typed client from configuration.
func NewClient(config *coc_client.CocConfig) (*Client, error) {
	rawClient, err := coc_client.NewClashOfClans(config)
	if err != nil {
		return nil, err
	}
	return NewClientFrom(rawClient), nil
}

// NewClientFrom wraps an existing fluent client.
func NewClientFrom(rawClient *coc_client.ClashOfClans) *Client {
	return &Client{Untyped: rawClient, validate: validator.New()}
}

// Locations lists every location, following pagination.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	return fetchAll[Location](ctx, c.Untyped.Locations())
}

// Countries lists the locations flagged as countries.
func (c *Client) Countries(ctx context.Context) ([]Location, error) {
	records, err := core.NewPageIterator(c.Untyped.Locations(), 0).All(ctx)
	if err != nil {
		return nil, err
	}
	var out []Location
	if err = core.FilterCountryLocations(records, true).Fill(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Location(ctx context.Context, locationID int64) (*Location, error) {
	return fetchOne[Location](ctx, c.Untyped.Locations().Call(locationID))
}

func (c *Client) Clan(ctx context.Context, tag string) (*Clan, error) {
	return fetchOne[Clan](ctx, c.Untyped.Clans().Call(NormalizeTag(tag)))
}

// ClanMembers lists the members of a clan, following pagination.
func (c *Client) ClanMembers(ctx context.Context, tag string) ([]ClanMember, error) {
	return fetchAll[ClanMember](ctx, c.Untyped.Clans().Call(NormalizeTag(tag)).Attr("members"))
}

// SearchClans returns the first page of clans matching search.
func (c *Client) SearchClans(ctx context.Context, search ClanSearch) ([]Clan, error) {
	if err := c.validate.Struct(search); err != nil {
		return nil, fmt.Errorf("invalid clan search: %w", err)
	}
	params, err := core.ParamsFromStruct(search)
	if err != nil {
		return nil, err
	}
	filters := params.Copy()
	filters.Without("limit")
	if len(filters) == 0 {
		return nil, errors.New("invalid clan search: at least one filter is required")
	}
	return fetchPage[Clan](ctx, c.Untyped.Clans().Query(params))
}

func (c *Client) Player(ctx context.Context, tag string) (*Player, error) {
	return fetchOne[Player](ctx, c.Untyped.Players().Call(NormalizeTag(tag)))
}

// Leagues lists the home village leagues.
func (c *Client) Leagues(ctx context.Context) ([]League, error) {
	return fetchAll[League](ctx, c.Untyped.Leagues())
}

// ClanLabels lists the labels that can be attached to clans.
func (c *Client) ClanLabels(ctx context.Context) ([]Label, error) {
	return fetchAll[Label](ctx, c.Untyped.Labels().Attr("clans"))
}

// ClanRankings returns the clan ranking of a location. limit <= 0 keeps the server default.
func (c *Client) ClanRankings(ctx context.Context, locationID int64, limit int) ([]RankedClan, error) {
	return fetchPage[RankedClan](ctx, withLimit(rankings(c, locationID, "clans"), limit))
}

// PlayerRankings returns the player ranking of a location. limit <= 0 keeps the server default.
func (c *Client) PlayerRankings(ctx context.Context, locationID int64, limit int) ([]RankedPlayer, error) {
	return fetchPage[RankedPlayer](ctx, withLimit(rankings(c, locationID, "players"), limit))
}

// GoldPass returns the current gold pass season.
func (c *Client) GoldPass(ctx context.Context) (*GoldPassSeason, error) {
	return fetchOne[GoldPassSeason](ctx, c.Untyped.GoldPass().Attr("seasons").Attr("current"))
}

func rankings(c *Client, locationID int64, kind string) *core.ApiCall {
	return c.Untyped.Locations().Call(locationID).Attr("rankings").Attr(kind)
}

func withLimit(call *core.ApiCall, limit int) *core.ApiCall {
	if limit <= 0 {
		return call
	}
	return call.Query(core.Params{"limit": limit})
}

// ######################################################
//              FETCH HELPERS
// ######################################################

// fetchOne executes call and decodes a record response into T.
func fetchOne[T any](ctx context.Context, call *core.ApiCall) (*T, error) {
	result, err := call.WithExtractItems(true).Get(ctx)
	if err != nil {
		return nil, err
	}
	switch typed := result.(type) {
	case *core.RecordResult:
		if apiErr := typed.AsError(); apiErr != nil {
			return nil, apiErr
		}
		out := new(T)
		if err = typed.Record.Fill(out); err != nil {
			return nil, err
		}
		return out, nil
	case *core.MalformedResult:
		return nil, typed.Err
	}
	return nil, fmt.Errorf("%s: expected a single record, got %s", call, result.Kind())
}

// fetchPage executes call and decodes the items of one page into []T.
func fetchPage[T any](ctx context.Context, call *core.ApiCall) ([]T, error) {
	result, err := call.WithExtractItems(true).Get(ctx)
	if err != nil {
		return nil, err
	}
	switch typed := result.(type) {
	case *core.ListResult:
		if apiErr := typed.AsError(); apiErr != nil {
			return nil, apiErr
		}
		return fill[T](typed.Items)
	case *core.RecordResult:
		if apiErr := typed.AsError(); apiErr != nil {
			return nil, apiErr
		}
	case *core.MalformedResult:
		return nil, typed.Err
	}
	return nil, fmt.Errorf("%s: expected a list, got %s", call, result.Kind())
}

// fetchAll walks every page of call and decodes all items into []T.
func fetchAll[T any](ctx context.Context, call *core.ApiCall) ([]T, error) {
	records, err := core.NewPageIterator(call, 0).All(ctx)
	if err != nil {
		return nil, err
	}
	return fill[T](records)
}

func fill[T any](records core.RecordSet) ([]T, error) {
	out := make([]T, 0, len(records))
	if err := records.Fill(&out); err != nil {
		return nil, err
	}
	return out, nil
}
