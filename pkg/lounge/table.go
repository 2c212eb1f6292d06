package lounge

import "time"

// TableScore is one player's line on a match table. Players are referenced
// by identifier, not by embedded Player objects.
type TableScore struct {
	Score             int     `json:"score"`
	Multiplier        float64 `json:"multiplier"`
	PlayerID          int     `json:"playerId"`
	PlayerName        string  `json:"playerName"`
	PlayerDiscordID   *string `json:"playerDiscordId,omitempty"`
	PlayerCountryCode *string `json:"playerCountryCode,omitempty"`
	Delta             *int    `json:"delta,omitempty"`
	PrevMMR           *int    `json:"prevMmr,omitempty"`
	NewMMR            *int    `json:"newMmr,omitempty"`
}

func decodeTableScore(data map[string]any) (TableScore, error) {
	d := newDecoder("TableScore", data)
	s := TableScore{
		Score:             d.integer("score"),
		Multiplier:        d.float("multiplier"),
		PlayerID:          d.integer("playerId"),
		PlayerName:        d.str("playerName"),
		PlayerDiscordID:   d.optStr("playerDiscordId"),
		PlayerCountryCode: d.optStr("playerCountryCode"),
		Delta:             d.optInt("delta"),
		PrevMMR:           d.optInt("prevMmr"),
		NewMMR:            d.optInt("newMmr"),
	}
	return s, d.finish()
}

// Raw exports the score line back into its raw mapping form.
func (s TableScore) Raw() map[string]any {
	m := map[string]any{
		"score":      s.Score,
		"multiplier": s.Multiplier,
		"playerId":   s.PlayerID,
		"playerName": s.PlayerName,
	}
	putOpt(m, "playerDiscordId", s.PlayerDiscordID)
	putOpt(m, "playerCountryCode", s.PlayerCountryCode)
	putOpt(m, "delta", s.Delta)
	putOpt(m, "prevMmr", s.PrevMMR)
	putOpt(m, "newMmr", s.NewMMR)
	return m
}

// TableTeam is one team on a match table: its finishing rank and the score
// lines of its members.
type TableTeam struct {
	Rank   int          `json:"rank"`
	Scores []TableScore `json:"scores"`
}

func decodeTableTeam(data map[string]any) (TableTeam, error) {
	d := newDecoder("TableTeam", data)
	t := TableTeam{
		Rank: d.integer("rank"),
	}
	rows := d.objects("scores", true)
	if err := d.finish(); err != nil {
		return TableTeam{}, err
	}
	t.Scores = make([]TableScore, 0, len(rows))
	for _, raw := range rows {
		s, err := decodeTableScore(raw)
		if err != nil {
			return TableTeam{}, err
		}
		t.Scores = append(t.Scores, s)
	}
	return t, nil
}

// Raw exports the team back into its raw mapping form.
func (t TableTeam) Raw() map[string]any {
	scores := make([]any, len(t.Scores))
	for i, s := range t.Scores {
		scores[i] = s.Raw()
	}
	return map[string]any{
		"rank":   t.Rank,
		"scores": scores,
	}
}

// PlayerIDs lists the identifiers of the team's members in score order.
func (t TableTeam) PlayerIDs() []int {
	ids := make([]int, len(t.Scores))
	for i, s := range t.Scores {
		ids[i] = s.PlayerID
	}
	return ids
}

// Table is one match result: the teams that played, their scores and the
// verification lifecycle of the table.
type Table struct {
	ID              int         `json:"id"`
	Score           int         `json:"score"`
	CreatedOn       time.Time   `json:"createdOn"`
	VerifiedOn      *time.Time  `json:"verifiedOn,omitempty"`
	DeletedOn       *time.Time  `json:"deletedOn,omitempty"`
	NumTeams        int         `json:"numTeams"`
	URL             string      `json:"url"`
	Tier            string      `json:"tier"`
	Teams           []TableTeam `json:"teams"`
	TableMessageID  *string     `json:"tableMessageId,omitempty"`
	UpdateMessageID *string     `json:"updateMessageId,omitempty"`
	AuthorID        *string     `json:"authorId,omitempty"`
}

// DecodeTable builds a Table from one raw response mapping.
func DecodeTable(data map[string]any) (*Table, error) {
	d := newDecoder("Table", data)
	t := &Table{
		ID:              d.integer("id"),
		Score:           d.integer("score"),
		CreatedOn:       d.timestamp("createdOn"),
		VerifiedOn:      d.optTimestamp("verifiedOn"),
		DeletedOn:       d.optTimestamp("deletedOn"),
		NumTeams:        d.integer("numTeams"),
		URL:             d.str("url"),
		Tier:            d.str("tier"),
		TableMessageID:  d.optStr("tableMessageId"),
		UpdateMessageID: d.optStr("updateMessageId"),
		AuthorID:        d.optStr("authorId"),
	}
	rows := d.objects("teams", true)
	if err := d.finish(); err != nil {
		return nil, err
	}
	t.Teams = make([]TableTeam, 0, len(rows))
	for _, raw := range rows {
		team, err := decodeTableTeam(raw)
		if err != nil {
			return nil, err
		}
		t.Teams = append(t.Teams, team)
	}
	return t, nil
}

// Raw exports the table back into its raw mapping form.
func (t *Table) Raw() map[string]any {
	teams := make([]any, len(t.Teams))
	for i, team := range t.Teams {
		teams[i] = team.Raw()
	}
	m := map[string]any{
		"id":        t.ID,
		"score":     t.Score,
		"createdOn": formatTimestamp(t.CreatedOn),
		"numTeams":  t.NumTeams,
		"url":       t.URL,
		"tier":      t.Tier,
		"teams":     teams,
	}
	putOptTime(m, "verifiedOn", t.VerifiedOn)
	putOptTime(m, "deletedOn", t.DeletedOn)
	putOpt(m, "tableMessageId", t.TableMessageID)
	putOpt(m, "updateMessageId", t.UpdateMessageID)
	putOpt(m, "authorId", t.AuthorID)
	return m
}

// IsVerified reports whether the table has been verified and not deleted.
func (t *Table) IsVerified() bool {
	return t.VerifiedOn != nil && t.DeletedOn == nil
}
