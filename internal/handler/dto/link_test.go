package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplink/snaplink/internal/model"
	"github.com/snaplink/snaplink/internal/service"
)

func TestValidity_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    int64
		wantErr bool
	}{
		{"integer", `{"validity": 45}`, 45, false},
		{"numeric string", `{"validity": "15"}`, 15, false},
		{"padded string", `{"validity": " 7 "}`, 7, false},
		{"zero passes decoding", `{"validity": 0}`, 0, false},
		{"negative passes decoding", `{"validity": -3}`, -3, false},
		{"fraction", `{"validity": 1.5}`, 0, true},
		{"exponent", `{"validity": 1e3}`, 0, true},
		{"word", `{"validity": "soon"}`, 0, true},
		{"boolean", `{"validity": true}`, 0, true},
		{"empty string", `{"validity": ""}`, 0, true},
		{"explicit null", `{"validity": null}`, 0, true},
		{"spaced null", `{"validity":  null }`, 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req CreateLinkRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValidity)
				return
			}
			require.NoError(t, err)
			assert.True(t, req.Validity.Set)
			assert.Equal(t, tt.want, req.Validity.Minutes)
		})
	}
}

func TestCreateLinkRequest_ToInput(t *testing.T) {
	t.Parallel()

	var withValidity CreateLinkRequest
	require.NoError(t, json.Unmarshal([]byte(`{"url":"https://example.com","validity":5,"shortcode":"abc"}`), &withValidity))
	input := withValidity.ToInput()
	assert.Equal(t, "https://example.com", input.TargetURL)
	assert.Equal(t, "abc", input.CustomCode)
	require.NotNil(t, input.ValidityMinutes)
	assert.Equal(t, int64(5), *input.ValidityMinutes)

	var withoutValidity CreateLinkRequest
	require.NoError(t, json.Unmarshal([]byte(`{"url":"https://example.com"}`), &withoutValidity))
	assert.False(t, withoutValidity.Validity.Set)
	assert.Nil(t, withoutValidity.ToInput().ValidityMinutes)

	var nullValidity CreateLinkRequest
	err := json.Unmarshal([]byte(`{"url":"https://example.com","validity":null}`), &nullValidity)
	assert.ErrorIs(t, err, ErrInvalidValidity)
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 9, 14, 5, 6, 789_000_000, loc)

	assert.Equal(t, "2024-03-09T12:05:06.789Z", FormatTime(ts))
	assert.Equal(t, "2024-03-09T12:05:06.000Z", FormatTime(ts.Truncate(time.Second)))
}

func TestShortLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://localhost:8080/abc", ShortLink("http://localhost:8080", "abc"))
	assert.Equal(t, "http://localhost:8080/abc", ShortLink("http://localhost:8080/", "abc"))
}

func TestToLinkStatsResponse(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	stats := &service.LinkStats{
		Code:       "abc123",
		TargetURL:  "http://foo.com",
		CreatedAt:  created,
		ExpiresAt:  created.Add(time.Minute),
		ClickCount: 1,
		Status:     model.LinkStatusActive,
	}

	t.Run("without click log", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(ToLinkStatsResponse(stats, "http://s.io"))
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(data, &body))
		assert.NotContains(t, body, "clickDetails")
		assert.Equal(t, "http://s.io/abc123", body["shortLink"])
		assert.Equal(t, "2024-01-15T12:00:00.000Z", body["creationTime"])
		assert.Equal(t, "2024-01-15T12:01:00.000Z", body["expiry"])
		assert.Equal(t, float64(1), body["clicks"])
		assert.Equal(t, "active", body["status"])
	})

	t.Run("with empty click log", func(t *testing.T) {
		t.Parallel()

		withClicks := *stats
		withClicks.Clicks = []model.ClickEvent{}

		data, err := json.Marshal(ToLinkStatsResponse(&withClicks, "http://s.io"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"clickDetails":[]`)
	})

	t.Run("with clicks", func(t *testing.T) {
		t.Parallel()

		withClicks := *stats
		withClicks.Clicks = []model.ClickEvent{{
			ID:        "01HMB7ZP4R0000000000000000",
			Timestamp: created.Add(30 * time.Second),
			Source:    "unknown",
			Location:  "192.0.2.1",
		}}

		resp, ok := ToLinkStatsResponse(&withClicks, "http://s.io").(LinkStatsResponse)
		require.True(t, ok)
		require.Len(t, resp.ClickDetails, 1)
		assert.Equal(t, ClickDetailResponse{
			Timestamp: "2024-01-15T12:00:30.000Z",
			Source:    "unknown",
			Location:  "192.0.2.1",
		}, resp.ClickDetails[0])
	})
}
