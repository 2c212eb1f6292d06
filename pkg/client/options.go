package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/illmade-knight/go-lounge/pkg/lounge"
)

// PlayerRef addresses one player by exactly one identifier. When several
// are set, the first in field order wins, matching the upstream API's
// precedence.
type PlayerRef struct {
	ID        int
	Name      string
	MKCID     int
	DiscordID string
	SwitchFC  string
}

// values renders the reference as query parameters. An empty reference is
// an invalid argument.
func (r PlayerRef) values() (url.Values, error) {
	params := url.Values{}
	switch {
	case r.ID > 0:
		params.Set("id", strconv.Itoa(r.ID))
	case r.Name != "":
		params.Set("name", r.Name)
	case r.MKCID > 0:
		params.Set("mkcId", strconv.Itoa(r.MKCID))
	case r.DiscordID != "":
		params.Set("discordId", r.DiscordID)
	case r.SwitchFC != "":
		params.Set("fc", r.SwitchFC)
	default:
		return nil, fmt.Errorf("%w: player reference is empty", lounge.ErrInvalidArgument)
	}
	return params, nil
}

// detailsValues is the reference form accepted by the player details
// endpoint, which resolves by id or name only.
func (r PlayerRef) detailsValues() (url.Values, error) {
	params := url.Values{}
	switch {
	case r.ID > 0:
		params.Set("id", strconv.Itoa(r.ID))
	case r.Name != "":
		params.Set("name", r.Name)
	default:
		return nil, fmt.Errorf("%w: player details require an id or name", lounge.ErrInvalidArgument)
	}
	return params, nil
}

// SeasonOptions qualifies a lookup with an optional season; nil or an unset
// Season means the current season.
type SeasonOptions struct {
	Season *int `url:"season,omitempty"`
}

// ListPlayersOptions filters the player list endpoint.
type ListPlayersOptions struct {
	MinMMR *int `url:"minMmr,omitempty"`
	MaxMMR *int `url:"maxMmr,omitempty"`
	Season *int `url:"season,omitempty"`
}

// LeaderboardOptions selects and filters one leaderboard page.
type LeaderboardOptions struct {
	Skip            int    `url:"skip"`
	PageSize        int    `url:"pageSize"`
	Search          string `url:"search,omitempty"`
	Country         string `url:"country,omitempty"`
	MinMMR          *int   `url:"minMmr,omitempty"`
	MaxMMR          *int   `url:"maxMmr,omitempty"`
	MinEventsPlayed *int   `url:"minEventsPlayed,omitempty"`
	MaxEventsPlayed *int   `url:"maxEventsPlayed,omitempty"`
}

// ListTablesOptions filters the table list endpoint by creation time and
// season.
type ListTablesOptions struct {
	After  *time.Time `url:"from,omitempty"`
	Before *time.Time `url:"to,omitempty"`
	Season *int       `url:"season,omitempty"`
}

// ListPenaltiesOptions filters a player's penalty list.
type ListPenaltiesOptions struct {
	IsStrike       *bool      `url:"isStrike,omitempty"`
	After          *time.Time `url:"from,omitempty"`
	IncludeDeleted bool       `url:"includeDeleted"`
	Season         *int       `url:"season,omitempty"`
}

// Search targets one player in a leaderboard search by a secondary
// identifier. Use its String as LeaderboardOptions.Search.
type Search struct {
	MKCID     string
	DiscordID string
	SwitchFC  string
}

func (s Search) String() string {
	switch {
	case s.MKCID != "":
		return "mkc=" + s.MKCID
	case s.DiscordID != "":
		return "discord=" + s.DiscordID
	default:
		return "switch=" + s.SwitchFC
	}
}

// optionValues renders a tagged options struct as query parameters. A nil
// options pointer yields empty values.
func optionValues(opts any) (url.Values, error) {
	values, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lounge.ErrInvalidArgument, err)
	}
	return values, nil
}

// mergeValues copies every parameter of extra into params.
func mergeValues(params, extra url.Values) {
	for field, values := range extra {
		for _, v := range values {
			params.Set(field, v)
		}
	}
}

// cacheID renders params into the canonical cache identifier for a lookup.
// Encoding sorts parameters, and name-bearing parameters are case folded so
// lookups that differ only in identifier case share one entry.
func cacheID(params url.Values) string {
	canonical := url.Values{}
	for field, values := range params {
		for _, v := range values {
			if field == "name" || field == "search" {
				v = strings.ToLower(v)
			}
			canonical.Add(field, v)
		}
	}
	return canonical.Encode()
}
