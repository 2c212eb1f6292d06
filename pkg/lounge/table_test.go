package lounge_test

import (
	"errors"
	"testing"
	"time"

	"github.com/illmade-knight/go-lounge/pkg/lounge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tablePayload() map[string]any {
	return map[string]any{
		"id":         float64(43521),
		"score":      float64(984),
		"createdOn":  "2023-06-12T20:15:00Z",
		"verifiedOn": "2023-06-12T21:00:00Z",
		"numTeams":   float64(2),
		"url":        "/TableImage/43521.png",
		"tier":       "A",
		"teams": []any{
			map[string]any{
				"rank": float64(1),
				"scores": []any{
					map[string]any{
						"score":      float64(104),
						"multiplier": float64(1),
						"playerId":   float64(1801),
						"playerName": "Azure_mk",
						"delta":      float64(52),
						"prevMmr":    float64(12448),
						"newMmr":     float64(12500),
					},
				},
			},
			map[string]any{
				"rank": float64(2),
				"scores": []any{
					map[string]any{
						"score":      float64(86),
						"multiplier": float64(1),
						"playerId":   float64(2002),
						"playerName": "yuki",
					},
				},
			},
		},
	}
}

func TestDecodeTable(t *testing.T) {
	t.Run("Decodes teams and score lines", func(t *testing.T) {
		// Act
		table, err := lounge.DecodeTable(tablePayload())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 43521, table.ID)
		assert.Equal(t, time.Date(2023, 6, 12, 20, 15, 0, 0, time.UTC), table.CreatedOn)
		require.Len(t, table.Teams, 2)
		assert.Equal(t, 1, table.Teams[0].Rank)
		assert.Equal(t, []int{1801}, table.Teams[0].PlayerIDs())
		assert.Equal(t, []int{2002}, table.Teams[1].PlayerIDs())
		assert.True(t, table.IsVerified())
		assert.Nil(t, table.DeletedOn)
	})

	t.Run("Missing teams fails with DecodeError", func(t *testing.T) {
		// Arrange
		payload := tablePayload()
		delete(payload, "teams")

		// Act
		_, err := lounge.DecodeTable(payload)

		// Assert
		var decodeErr *lounge.DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, "teams", decodeErr.Field)
	})

	t.Run("Malformed timestamp fails with DecodeError", func(t *testing.T) {
		// Arrange
		payload := tablePayload()
		payload["createdOn"] = "yesterday"

		// Act
		_, err := lounge.DecodeTable(payload)

		// Assert
		var decodeErr *lounge.DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, "createdOn", decodeErr.Field)
	})

	t.Run("Timestamp without zone offset is accepted", func(t *testing.T) {
		// Arrange
		payload := tablePayload()
		payload["createdOn"] = "2023-06-12T20:15:00.1234567"

		// Act
		table, err := lounge.DecodeTable(payload)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2023, table.CreatedOn.Year())
	})
}

func TestTable_Raw_RoundTrip(t *testing.T) {
	// Arrange
	table, err := lounge.DecodeTable(tablePayload())
	require.NoError(t, err)

	// Act
	raw := table.Raw()

	// Assert
	assert.Equal(t, 43521, raw["id"])
	assert.Equal(t, "2023-06-12T20:15:00Z", raw["createdOn"])
	assert.Equal(t, "2023-06-12T21:00:00Z", raw["verifiedOn"])
	assert.NotContains(t, raw, "deletedOn")

	teams, ok := raw["teams"].([]any)
	require.True(t, ok)
	require.Len(t, teams, 2)
	first, ok := teams[0].(map[string]any)
	require.True(t, ok)
	scores, ok := first["scores"].([]any)
	require.True(t, ok)
	line, ok := scores[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Azure_mk", line["playerName"])
	assert.Equal(t, 52, line["delta"])

	// A re-decode of the export yields an identical object.
	again, err := lounge.DecodeTable(raw)
	require.NoError(t, err)
	assert.Equal(t, table, again)
}

func TestDecodeBonusAndPenalty(t *testing.T) {
	// Arrange
	base := map[string]any{
		"id":         float64(9),
		"season":     float64(8),
		"awardedOn":  "2023-02-01T10:00:00Z",
		"prevMmr":    float64(9000),
		"newMmr":     float64(9100),
		"amount":     float64(100),
		"playerId":   float64(1801),
		"playerName": "Azure_mk",
	}

	// Act / Assert: bonus
	bonus, err := lounge.DecodeBonus(base)
	require.NoError(t, err)
	assert.Equal(t, 100, bonus.Amount)
	assert.Equal(t, "2023-02-01T10:00:00Z", bonus.Raw()["awardedOn"])

	// Act / Assert: penalty requires the strike flag
	_, err = lounge.DecodePenalty(base)
	var decodeErr *lounge.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "isStrike", decodeErr.Field)

	base["isStrike"] = true
	penalty, err := lounge.DecodePenalty(base)
	require.NoError(t, err)
	assert.True(t, penalty.IsStrike)
	assert.Equal(t, true, penalty.Raw()["isStrike"])
}

func TestParseRank(t *testing.T) {
	r := lounge.ParseRank("Gold 2")
	assert.Equal(t, "Gold", r.Division)
	require.NotNil(t, r.Level)
	assert.Equal(t, 2, *r.Level)
	assert.Equal(t, "Gold 2", r.String())

	r = lounge.ParseRank("Grandmaster")
	assert.Equal(t, "Grandmaster", r.Division)
	assert.Nil(t, r.Level)
}
