package typed

import (
	"strings"
	"time"
)

// ######################################################
//              MODELS
// ######################################################

// IconUrls holds the image variants served for badges, leagues and labels.
type IconUrls struct {
	Tiny   string `json:"tiny,omitempty"`
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

type Location struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	IsCountry     bool   `json:"isCountry"`
	CountryCode   string `json:"countryCode,omitempty"`
	LocalizedName string `json:"localizedName,omitempty"`
}

type League struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	IconUrls IconUrls `json:"iconUrls"`
}

type Label struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	IconUrls IconUrls `json:"iconUrls"`
}

type ClanMember struct {
	Tag                 string  `json:"tag"`
	Name                string  `json:"name"`
	Role                string  `json:"role"`
	ExpLevel            int     `json:"expLevel"`
	League              *League `json:"league,omitempty"`
	Trophies            int     `json:"trophies"`
	BuilderBaseTrophies int     `json:"builderBaseTrophies"`
	ClanRank            int     `json:"clanRank"`
	PreviousClanRank    int     `json:"previousClanRank"`
	Donations           int     `json:"donations"`
	DonationsReceived   int     `json:"donationsReceived"`
}

type Clan struct {
	Tag                   string       `json:"tag"`
	Name                  string       `json:"name"`
	Type                  string       `json:"type"`
	Description           string       `json:"description,omitempty"`
	Location              *Location    `json:"location,omitempty"`
	BadgeUrls             IconUrls     `json:"badgeUrls"`
	ClanLevel             int          `json:"clanLevel"`
	ClanPoints            int          `json:"clanPoints"`
	ClanBuilderBasePoints int          `json:"clanBuilderBasePoints"`
	RequiredTrophies      int          `json:"requiredTrophies"`
	WarFrequency          string       `json:"warFrequency"`
	WarWinStreak          int          `json:"warWinStreak"`
	WarWins               int          `json:"warWins"`
	IsWarLogPublic        bool         `json:"isWarLogPublic"`
	Members               int          `json:"members"`
	Labels                []Label      `json:"labels,omitempty"`
	MemberList            []ClanMember `json:"memberList,omitempty"`
}

// PlayerClan is the short clan summary embedded in a Player.
type PlayerClan struct {
	Tag       string   `json:"tag"`
	Name      string   `json:"name"`
	ClanLevel int      `json:"clanLevel"`
	BadgeUrls IconUrls `json:"badgeUrls"`
}

type Player struct {
	Tag              string      `json:"tag"`
	Name             string      `json:"name"`
	ExpLevel         int         `json:"expLevel"`
	TownHallLevel    int         `json:"townHallLevel"`
	Trophies         int         `json:"trophies"`
	BestTrophies     int         `json:"bestTrophies"`
	WarStars         int         `json:"warStars"`
	AttackWins       int         `json:"attackWins"`
	DefenseWins      int         `json:"defenseWins"`
	BuilderHallLevel int         `json:"builderHallLevel,omitempty"`
	Role             string      `json:"role,omitempty"`
	Clan             *PlayerClan `json:"clan,omitempty"`
	League           *League     `json:"league,omitempty"`
	Labels           []Label     `json:"labels,omitempty"`
}

// RankedClan is an entry of /locations/{id}/rankings/clans.
type RankedClan struct {
	Tag          string    `json:"tag"`
	Name         string    `json:"name"`
	Location     *Location `json:"location,omitempty"`
	BadgeUrls    IconUrls  `json:"badgeUrls"`
	ClanLevel    int       `json:"clanLevel"`
	Members      int       `json:"members"`
	ClanPoints   int       `json:"clanPoints"`
	Rank         int       `json:"rank"`
	PreviousRank int       `json:"previousRank"`
}

// RankedPlayer is an entry of /locations/{id}/rankings/players.
type RankedPlayer struct {
	Tag          string      `json:"tag"`
	Name         string      `json:"name"`
	ExpLevel     int         `json:"expLevel"`
	Trophies     int         `json:"trophies"`
	AttackWins   int         `json:"attackWins"`
	DefenseWins  int         `json:"defenseWins"`
	Rank         int         `json:"rank"`
	PreviousRank int         `json:"previousRank"`
	Clan         *PlayerClan `json:"clan,omitempty"`
	League       *League     `json:"league,omitempty"`
}

// apiTimeLayout is the compact ISO 8601 form used by the API, e.g. 20240101T080000.000Z.
const apiTimeLayout = "20060102T150405.000Z"

type GoldPassSeason struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Start parses StartTime.
func (s GoldPassSeason) Start() (time.Time, error) {
	return time.Parse(apiTimeLayout, s.StartTime)
}

// End parses EndTime.
func (s GoldPassSeason) End() (time.Time, error) {
	return time.Parse(apiTimeLayout, s.EndTime)
}

// ClanSearch holds the filters of GET /clans. At least one filter must be set.
type ClanSearch struct {
	Name          string  `url:"name,omitempty" validate:"omitempty,min=3"`
	WarFrequency  string  `url:"warFrequency,omitempty" validate:"omitempty,oneof=always moreThanOncePerWeek oncePerWeek lessThanOncePerWeek never unknown"`
	LocationID    int64   `url:"locationId,omitempty"`
	MinMembers    int     `url:"minMembers,omitempty" validate:"omitempty,min=2,max=50"`
	MaxMembers    int     `url:"maxMembers,omitempty" validate:"omitempty,min=1,max=50"`
	MinClanPoints int     `url:"minClanPoints,omitempty" validate:"omitempty,min=1"`
	MinClanLevel  int     `url:"minClanLevel,omitempty" validate:"omitempty,min=2"`
	LabelIDs      []int64 `url:"labelIds,omitempty"`
	Limit         int     `url:"limit,omitempty" validate:"omitempty,min=1"`
}

// NormalizeTag upper-cases a clan or player tag and adds the leading '#' when missing.
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}
