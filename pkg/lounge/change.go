package lounge

import "time"

// Bonus is an MMR adjustment awarded to a player outside of a match.
type Bonus struct {
	ID         int        `json:"id"`
	Season     int        `json:"season"`
	AwardedOn  time.Time  `json:"awardedOn"`
	PrevMMR    int        `json:"prevMmr"`
	NewMMR     int        `json:"newMmr"`
	Amount     int        `json:"amount"`
	DeletedOn  *time.Time `json:"deletedOn,omitempty"`
	PlayerID   int        `json:"playerId"`
	PlayerName string     `json:"playerName"`
}

// DecodeBonus builds a Bonus from one raw response mapping.
func DecodeBonus(data map[string]any) (*Bonus, error) {
	d := newDecoder("Bonus", data)
	b := &Bonus{
		ID:         d.integer("id"),
		Season:     d.integer("season"),
		AwardedOn:  d.timestamp("awardedOn"),
		PrevMMR:    d.integer("prevMmr"),
		NewMMR:     d.integer("newMmr"),
		Amount:     d.integer("amount"),
		DeletedOn:  d.optTimestamp("deletedOn"),
		PlayerID:   d.integer("playerId"),
		PlayerName: d.str("playerName"),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return b, nil
}

// Raw exports the bonus back into its raw mapping form.
func (b *Bonus) Raw() map[string]any {
	m := map[string]any{
		"id":         b.ID,
		"season":     b.Season,
		"awardedOn":  formatTimestamp(b.AwardedOn),
		"prevMmr":    b.PrevMMR,
		"newMmr":     b.NewMMR,
		"amount":     b.Amount,
		"playerId":   b.PlayerID,
		"playerName": b.PlayerName,
	}
	putOptTime(m, "deletedOn", b.DeletedOn)
	return m
}

// Penalty is an MMR deduction applied to a player, optionally counting as a
// strike.
type Penalty struct {
	ID         int        `json:"id"`
	Season     int        `json:"season"`
	AwardedOn  time.Time  `json:"awardedOn"`
	PrevMMR    int        `json:"prevMmr"`
	NewMMR     int        `json:"newMmr"`
	Amount     int        `json:"amount"`
	DeletedOn  *time.Time `json:"deletedOn,omitempty"`
	PlayerID   int        `json:"playerId"`
	PlayerName string     `json:"playerName"`
	IsStrike   bool       `json:"isStrike"`
}

// DecodePenalty builds a Penalty from one raw response mapping.
func DecodePenalty(data map[string]any) (*Penalty, error) {
	d := newDecoder("Penalty", data)
	p := &Penalty{
		ID:         d.integer("id"),
		Season:     d.integer("season"),
		AwardedOn:  d.timestamp("awardedOn"),
		PrevMMR:    d.integer("prevMmr"),
		NewMMR:     d.integer("newMmr"),
		Amount:     d.integer("amount"),
		DeletedOn:  d.optTimestamp("deletedOn"),
		PlayerID:   d.integer("playerId"),
		PlayerName: d.str("playerName"),
		IsStrike:   d.boolean("isStrike"),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// Raw exports the penalty back into its raw mapping form.
func (p *Penalty) Raw() map[string]any {
	m := map[string]any{
		"id":         p.ID,
		"season":     p.Season,
		"awardedOn":  formatTimestamp(p.AwardedOn),
		"prevMmr":    p.PrevMMR,
		"newMmr":     p.NewMMR,
		"amount":     p.Amount,
		"playerId":   p.PlayerID,
		"playerName": p.PlayerName,
		"isStrike":   p.IsStrike,
	}
	putOptTime(m, "deletedOn", p.DeletedOn)
	return m
}
