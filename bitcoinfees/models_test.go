package bitcoinfees

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendedFees_String(t *testing.T) {
	fees := RecommendedFees{FastestFee: 20, HalfHourFee: 10, HourFee: 5}

	assert.Equal(t,
		"Recommended fees: fastest @ 20 sat / byte; 30 min @ 10 sat / byte; hour @ 5 sat / byte",
		fees.String())
}

func TestFee_String(t *testing.T) {
	fee := Fee{
		DayCount:   100,
		MaxDelay:   2,
		MaxFee:     50,
		MinFee:     40,
		MaxMinutes: 30,
		MemCount:   10,
		MinDelay:   1,
		MinMinutes: 15,
	}

	assert.Equal(t,
		"Data for 40 sat-50 sat / byte: delays are 1-2 blocks(15-30 min), processed 100 txs during last 24 hours, 10 txs in mempool",
		fee.String())
}

func TestRecommendedFees_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		expected  RecommendedFees
		wantError bool
	}{
		{
			name:     "all fields",
			body:     `{"fastestFee":20,"halfHourFee":10,"hourFee":5}`,
			expected: RecommendedFees{FastestFee: 20, HalfHourFee: 10, HourFee: 5},
		},
		{
			name:     "unknown fields ignored",
			body:     `{"fastestFee":20,"halfHourFee":10,"hourFee":5,"economyFee":2}`,
			expected: RecommendedFees{FastestFee: 20, HalfHourFee: 10, HourFee: 5},
		},
		{
			name:     "non monotonic values kept",
			body:     `{"fastestFee":1,"halfHourFee":10,"hourFee":50}`,
			expected: RecommendedFees{FastestFee: 1, HalfHourFee: 10, HourFee: 50},
		},
		{name: "missing field", body: `{"fastestFee":20,"halfHourFee":10}`, wantError: true},
		{name: "null field", body: `{"fastestFee":20,"halfHourFee":null,"hourFee":5}`, wantError: true},
		{name: "string value", body: `{"fastestFee":"20","halfHourFee":10,"hourFee":5}`, wantError: true},
		{name: "fractional value", body: `{"fastestFee":20.5,"halfHourFee":10,"hourFee":5}`, wantError: true},
		{name: "wrong case", body: `{"FastestFee":20,"halfHourFee":10,"hourFee":5}`, wantError: true},
		{name: "not an object", body: `[20,10,5]`, wantError: true},
		{name: "null body", body: `null`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fees RecommendedFees
			err := json.Unmarshal([]byte(tt.body), &fees)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fees)
		})
	}
}

func TestFeeList_UnmarshalJSON(t *testing.T) {
	t.Run("keeps server order", func(t *testing.T) {
		body := `{"fees":[
			{"minFee":40,"maxFee":50,"dayCount":1,"memCount":2,"minDelay":1,"maxDelay":2,"minMinutes":10,"maxMinutes":20},
			{"minFee":0,"maxFee":0,"dayCount":3,"memCount":4,"minDelay":5,"maxDelay":6,"minMinutes":70,"maxMinutes":80}
		]}`

		var list FeeList
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		require.Len(t, list.Fees, 2)
		assert.Equal(t, int64(40), list.Fees[0].MinFee)
		assert.Equal(t, int64(0), list.Fees[1].MinFee)
		assert.Equal(t, int64(80), list.Fees[1].MaxMinutes)
	})

	t.Run("empty list", func(t *testing.T) {
		var list FeeList
		require.NoError(t, json.Unmarshal([]byte(`{"fees":[]}`), &list))
		assert.NotNil(t, list.Fees)
		assert.Empty(t, list.Fees)
	})

	t.Run("missing fees", func(t *testing.T) {
		var list FeeList
		err := json.Unmarshal([]byte(`{}`), &list)

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"fees"}, missing.Fields)
	})

	t.Run("fees is not an array", func(t *testing.T) {
		var list FeeList
		assert.Error(t, json.Unmarshal([]byte(`{"fees":{}}`), &list))
	})

	t.Run("entry missing fields", func(t *testing.T) {
		var list FeeList
		err := json.Unmarshal([]byte(`{"fees":[{"minFee":40,"maxFee":50,"dayCount":1,"memCount":2,"minDelay":1,"maxDelay":2}]}`), &list)

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"maxMinutes", "minMinutes"}, missing.Fields)
	})
}
