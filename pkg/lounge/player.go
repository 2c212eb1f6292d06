package lounge

import (
	"fmt"
	"time"
)

// Player is the short profile returned by the player endpoint.
type Player struct {
	Name        string  `json:"name"`
	MMR         *int    `json:"mmr,omitempty"`
	ID          int     `json:"id"`
	MKCID       int     `json:"mkcId"`
	DiscordID   *string `json:"discordId,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	SwitchFC    *string `json:"switchFc,omitempty"`
	IsHidden    bool    `json:"isHidden"`
	MaxMMR      *int    `json:"maxMmr,omitempty"`
}

// DecodePlayer builds a Player from one raw response mapping.
func DecodePlayer(data map[string]any) (*Player, error) {
	d := newDecoder("Player", data)
	p := &Player{
		Name:        d.str("name"),
		MMR:         d.optInt("mmr"),
		ID:          d.integer("id"),
		MKCID:       d.integer("mkcId"),
		DiscordID:   d.optStr("discordId"),
		CountryCode: d.optStr("countryCode"),
		SwitchFC:    d.optStr("switchFc"),
		IsHidden:    d.boolean("isHidden"),
		MaxMMR:      d.optInt("maxMmr"),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// Raw exports the player back into its raw mapping form.
func (p *Player) Raw() map[string]any {
	m := map[string]any{
		"name":     p.Name,
		"id":       p.ID,
		"mkcId":    p.MKCID,
		"isHidden": p.IsHidden,
	}
	putOpt(m, "mmr", p.MMR)
	putOpt(m, "discordId", p.DiscordID)
	putOpt(m, "countryCode", p.CountryCode)
	putOpt(m, "switchFc", p.SwitchFC)
	putOpt(m, "maxMmr", p.MaxMMR)
	return m
}

// DisplayName renders the player's name with its country code when known,
// e.g. "Azure_mk (JP)".
func (p *Player) DisplayName() string {
	if p.CountryCode != nil {
		return fmt.Sprintf("%s (%s)", p.Name, *p.CountryCode)
	}
	return p.Name
}

// PlayerSummary is the abbreviated entry returned by the player list
// endpoint.
type PlayerSummary struct {
	Name         string  `json:"name"`
	MMR          *int    `json:"mmr,omitempty"`
	MKCID        int     `json:"mkcId"`
	EventsPlayed int     `json:"eventsPlayed"`
	DiscordID    *string `json:"discordId,omitempty"`
}

// DecodePlayerSummary builds a PlayerSummary from one raw list element.
func DecodePlayerSummary(data map[string]any) (*PlayerSummary, error) {
	d := newDecoder("PlayerSummary", data)
	p := &PlayerSummary{
		Name:         d.str("name"),
		MMR:          d.optInt("mmr"),
		MKCID:        d.integer("mkcId"),
		EventsPlayed: d.integer("eventsPlayed"),
		DiscordID:    d.optStr("discordId"),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// Raw exports the summary back into its raw mapping form.
func (p *PlayerSummary) Raw() map[string]any {
	m := map[string]any{
		"name":         p.Name,
		"mkcId":        p.MKCID,
		"eventsPlayed": p.EventsPlayed,
	}
	putOpt(m, "mmr", p.MMR)
	putOpt(m, "discordId", p.DiscordID)
	return m
}

// MmrChange is one entry of a player's season MMR history.
type MmrChange struct {
	ChangeID      *int      `json:"changeId,omitempty"`
	NewMMR        int       `json:"newMmr"`
	MMRDelta      int       `json:"mmrDelta"`
	Reason        string    `json:"reason"`
	Time          time.Time `json:"time"`
	Score         *int      `json:"score,omitempty"`
	PartnerScores []int     `json:"partnerScores,omitempty"`
	PartnerIDs    []int     `json:"partnerIds,omitempty"`
	Tier          *string   `json:"tier,omitempty"`
	NumTeams      *int      `json:"numTeams,omitempty"`
}

func decodeMmrChange(data map[string]any) (MmrChange, error) {
	d := newDecoder("MmrChange", data)
	c := MmrChange{
		ChangeID:      d.optInt("changeId"),
		NewMMR:        d.integer("newMmr"),
		MMRDelta:      d.integer("mmrDelta"),
		Reason:        d.str("reason"),
		Time:          d.timestamp("time"),
		Score:         d.optInt("score"),
		PartnerScores: d.optIntList("partnerScores"),
		PartnerIDs:    d.optIntList("partnerIds"),
		Tier:          d.optStr("tier"),
		NumTeams:      d.optInt("numTeams"),
	}
	return c, d.finish()
}

// Raw exports the change back into its raw mapping form.
func (c MmrChange) Raw() map[string]any {
	m := map[string]any{
		"newMmr":   c.NewMMR,
		"mmrDelta": c.MMRDelta,
		"reason":   c.Reason,
		"time":     formatTimestamp(c.Time),
	}
	putOpt(m, "changeId", c.ChangeID)
	putOpt(m, "score", c.Score)
	if c.PartnerScores != nil {
		m["partnerScores"] = intsToRaw(c.PartnerScores)
	}
	if c.PartnerIDs != nil {
		m["partnerIds"] = intsToRaw(c.PartnerIDs)
	}
	putOpt(m, "tier", c.Tier)
	putOpt(m, "numTeams", c.NumTeams)
	return m
}

// NameChange records one historical rename of a player.
type NameChange struct {
	Name      string    `json:"name"`
	ChangedOn time.Time `json:"changedOn"`
}

func decodeNameChange(data map[string]any) (NameChange, error) {
	d := newDecoder("NameChange", data)
	c := NameChange{
		Name:      d.str("name"),
		ChangedOn: d.timestamp("changedOn"),
	}
	return c, d.finish()
}

// Raw exports the rename back into its raw mapping form.
func (c NameChange) Raw() map[string]any {
	return map[string]any{
		"name":      c.Name,
		"changedOn": formatTimestamp(c.ChangedOn),
	}
}

// PlayerDetails is the full season profile returned by the player details
// endpoint, including MMR history and rename history.
type PlayerDetails struct {
	Name               string       `json:"name"`
	MMR                *int         `json:"mmr,omitempty"`
	PlayerID           int          `json:"playerId"`
	MKCID              int          `json:"mkcId"`
	CountryCode        *string      `json:"countryCode,omitempty"`
	CountryName        *string      `json:"countryName,omitempty"`
	SwitchFC           *string      `json:"switchFc,omitempty"`
	IsHidden           bool         `json:"isHidden"`
	Season             int          `json:"season"`
	MaxMMR             *int         `json:"maxMmr,omitempty"`
	OverallRank        *int         `json:"overallRank,omitempty"`
	EventsPlayed       int          `json:"eventsPlayed"`
	WinRate            *float64     `json:"winRate,omitempty"`
	WinsLastTen        int          `json:"winsLastTen"`
	LossesLastTen      int          `json:"lossesLastTen"`
	GainLossLastTen    *int         `json:"gainLossLastTen,omitempty"`
	LargestGain        *int         `json:"largestGain,omitempty"`
	LargestGainTableID *int         `json:"largestGainTableId,omitempty"`
	LargestLoss        *int         `json:"largestLoss,omitempty"`
	LargestLossTableID *int         `json:"largestLossTableId,omitempty"`
	AverageScore       *float64     `json:"averageScore,omitempty"`
	AverageLastTen     *float64     `json:"averageLastTen,omitempty"`
	PartnerAverage     *float64     `json:"partnerAverage,omitempty"`
	MMRChanges         []MmrChange  `json:"mmrChanges,omitempty"`
	NameHistory        []NameChange `json:"nameHistory,omitempty"`
	Rank               string       `json:"rank"`
}

// DecodePlayerDetails builds a PlayerDetails from one raw response mapping.
func DecodePlayerDetails(data map[string]any) (*PlayerDetails, error) {
	d := newDecoder("PlayerDetails", data)
	p := &PlayerDetails{
		Name:               d.str("name"),
		MMR:                d.optInt("mmr"),
		PlayerID:           d.integer("playerId"),
		MKCID:              d.integer("mkcId"),
		CountryCode:        d.optStr("countryCode"),
		CountryName:        d.optStr("countryName"),
		SwitchFC:           d.optStr("switchFc"),
		IsHidden:           d.boolean("isHidden"),
		Season:             d.integer("season"),
		MaxMMR:             d.optInt("maxMmr"),
		OverallRank:        d.optInt("overallRank"),
		EventsPlayed:       d.integer("eventsPlayed"),
		WinRate:            d.optFloat("winRate"),
		WinsLastTen:        d.integer("winsLastTen"),
		LossesLastTen:      d.integer("lossesLastTen"),
		GainLossLastTen:    d.optInt("gainLossLastTen"),
		LargestGain:        d.optInt("largestGain"),
		LargestGainTableID: d.optInt("largestGainTableId"),
		LargestLoss:        d.optInt("largestLoss"),
		LargestLossTableID: d.optInt("largestLossTableId"),
		AverageScore:       d.optFloat("averageScore"),
		AverageLastTen:     d.optFloat("averageLastTen"),
		PartnerAverage:     d.optFloat("partnerAverage"),
		Rank:               d.str("rank"),
	}
	for _, raw := range d.objects("mmrChanges", false) {
		c, err := decodeMmrChange(raw)
		if err != nil {
			return nil, err
		}
		p.MMRChanges = append(p.MMRChanges, c)
	}
	for _, raw := range d.objects("nameHistory", false) {
		c, err := decodeNameChange(raw)
		if err != nil {
			return nil, err
		}
		p.NameHistory = append(p.NameHistory, c)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// Raw exports the details back into their raw mapping form.
func (p *PlayerDetails) Raw() map[string]any {
	m := map[string]any{
		"name":          p.Name,
		"playerId":      p.PlayerID,
		"mkcId":         p.MKCID,
		"isHidden":      p.IsHidden,
		"season":        p.Season,
		"eventsPlayed":  p.EventsPlayed,
		"winsLastTen":   p.WinsLastTen,
		"lossesLastTen": p.LossesLastTen,
		"rank":          p.Rank,
	}
	putOpt(m, "mmr", p.MMR)
	putOpt(m, "countryCode", p.CountryCode)
	putOpt(m, "countryName", p.CountryName)
	putOpt(m, "switchFc", p.SwitchFC)
	putOpt(m, "maxMmr", p.MaxMMR)
	putOpt(m, "overallRank", p.OverallRank)
	putOpt(m, "winRate", p.WinRate)
	putOpt(m, "gainLossLastTen", p.GainLossLastTen)
	putOpt(m, "largestGain", p.LargestGain)
	putOpt(m, "largestGainTableId", p.LargestGainTableID)
	putOpt(m, "largestLoss", p.LargestLoss)
	putOpt(m, "largestLossTableId", p.LargestLossTableID)
	putOpt(m, "averageScore", p.AverageScore)
	putOpt(m, "averageLastTen", p.AverageLastTen)
	putOpt(m, "partnerAverage", p.PartnerAverage)
	if p.MMRChanges != nil {
		changes := make([]any, len(p.MMRChanges))
		for i, c := range p.MMRChanges {
			changes[i] = c.Raw()
		}
		m["mmrChanges"] = changes
	}
	if p.NameHistory != nil {
		renames := make([]any, len(p.NameHistory))
		for i, c := range p.NameHistory {
			renames[i] = c.Raw()
		}
		m["nameHistory"] = renames
	}
	return m
}

// ParsedRank splits the rank label into its division and level.
func (p *PlayerDetails) ParsedRank() Rank {
	return ParseRank(p.Rank)
}

func intsToRaw(values []int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
