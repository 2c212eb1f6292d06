package lounge

// LeaderboardPlayer is one row of a season leaderboard page.
type LeaderboardPlayer struct {
	Name            string   `json:"name"`
	MMR             *int     `json:"mmr,omitempty"`
	ID              int      `json:"id"`
	WinsLastTen     int      `json:"winsLastTen"`
	LossesLastTen   int      `json:"lossesLastTen"`
	EventsPlayed    int      `json:"eventsPlayed"`
	OverallRank     *int     `json:"overallRank,omitempty"`
	CountryCode     *string  `json:"countryCode,omitempty"`
	MaxMMR          *int     `json:"maxMmr,omitempty"`
	WinRate         *float64 `json:"winRate,omitempty"`
	GainLossLastTen *int     `json:"gainLossLastTen,omitempty"`
	LargestGain     *int     `json:"largestGain,omitempty"`
	LargestLoss     *int     `json:"largestLoss,omitempty"`
	MaxRank         *string  `json:"maxRank,omitempty"`
	MaxMMRRank      *string  `json:"maxMmrRank,omitempty"`
}

func decodeLeaderboardPlayer(data map[string]any) (LeaderboardPlayer, error) {
	d := newDecoder("LeaderboardPlayer", data)
	p := LeaderboardPlayer{
		Name:            d.str("name"),
		MMR:             d.optInt("mmr"),
		ID:              d.integer("id"),
		WinsLastTen:     d.integer("winsLastTen"),
		LossesLastTen:   d.integer("lossesLastTen"),
		EventsPlayed:    d.integer("eventsPlayed"),
		OverallRank:     d.optInt("overallRank"),
		CountryCode:     d.optStr("countryCode"),
		MaxMMR:          d.optInt("maxMmr"),
		WinRate:         d.optFloat("winRate"),
		GainLossLastTen: d.optInt("gainLossLastTen"),
		LargestGain:     d.optInt("largestGain"),
		LargestLoss:     d.optInt("largestLoss"),
		MaxRank:         d.optStr("maxRank"),
		MaxMMRRank:      d.optStr("maxMmrRank"),
	}
	return p, d.finish()
}

// Raw exports the row back into its raw mapping form.
func (p LeaderboardPlayer) Raw() map[string]any {
	m := map[string]any{
		"name":          p.Name,
		"id":            p.ID,
		"winsLastTen":   p.WinsLastTen,
		"lossesLastTen": p.LossesLastTen,
		"eventsPlayed":  p.EventsPlayed,
	}
	putOpt(m, "mmr", p.MMR)
	putOpt(m, "overallRank", p.OverallRank)
	putOpt(m, "countryCode", p.CountryCode)
	putOpt(m, "maxMmr", p.MaxMMR)
	putOpt(m, "winRate", p.WinRate)
	putOpt(m, "gainLossLastTen", p.GainLossLastTen)
	putOpt(m, "largestGain", p.LargestGain)
	putOpt(m, "largestLoss", p.LargestLoss)
	putOpt(m, "maxRank", p.MaxRank)
	putOpt(m, "maxMmrRank", p.MaxMMRRank)
	return m
}

// Leaderboard is one page of a season leaderboard.
type Leaderboard struct {
	TotalPlayers int                 `json:"totalPlayers"`
	Players      []LeaderboardPlayer `json:"data"`
}

// DecodeLeaderboard builds a Leaderboard from one raw response mapping.
func DecodeLeaderboard(data map[string]any) (*Leaderboard, error) {
	d := newDecoder("Leaderboard", data)
	lb := &Leaderboard{
		TotalPlayers: d.integer("totalPlayers"),
	}
	rows := d.objects("data", true)
	if err := d.finish(); err != nil {
		return nil, err
	}
	lb.Players = make([]LeaderboardPlayer, 0, len(rows))
	for _, raw := range rows {
		p, err := decodeLeaderboardPlayer(raw)
		if err != nil {
			return nil, err
		}
		lb.Players = append(lb.Players, p)
	}
	return lb, nil
}

// Raw exports the page back into its raw mapping form.
func (lb *Leaderboard) Raw() map[string]any {
	rows := make([]any, len(lb.Players))
	for i, p := range lb.Players {
		rows[i] = p.Raw()
	}
	return map[string]any{
		"totalPlayers": lb.TotalPlayers,
		"data":         rows,
	}
}

// Len reports the number of rows on this page.
func (lb *Leaderboard) Len() int { return len(lb.Players) }

// At returns the row at the given index.
func (lb *Leaderboard) At(i int) LeaderboardPlayer { return lb.Players[i] }
