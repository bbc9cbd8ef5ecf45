package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdID(t *testing.T) {
	for _, adID := range []string{"5_3", "ad_5_3"} {
		campaignID, creativeID, err := ParseAdID(adID)
		require.NoError(t, err, adID)
		assert.Equal(t, int64(5), campaignID)
		assert.Equal(t, int64(3), creativeID)
	}

	for _, adID := range []string{"", "5", "ad_5", "x_y", "ad_x_y"} {
		_, _, err := ParseAdID(adID)
		assert.Error(t, err, adID)
	}
}

func TestParseEventType(t *testing.T) {
	cases := map[string]EventType{
		"impression": EventImpression,
		"imp":        EventImpression,
		"v":          EventImpression,
		"click":      EventClick,
		"clk":        EventClick,
		"c":          EventClick,
		"conversion": EventConversion,
		"conv":       EventConversion,
		"x":          EventConversion,
		"CLICK":      EventClick,
	}
	for in, want := range cases {
		got, ok := ParseEventType(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	_, ok := ParseEventType("view_through")
	assert.False(t, ok)
}

func TestEventCost(t *testing.T) {
	bid := decimal.RequireFromString("2.00")

	// A charge applies only when the event matches the pricing model.
	assert.True(t, EventCost(BidCPM, EventImpression, bid, false).
		Equal(decimal.RequireFromString("0.002")))
	assert.True(t, EventCost(BidOCPM, EventImpression, bid, false).
		Equal(decimal.RequireFromString("0.002")))
	assert.True(t, EventCost(BidCPC, EventClick, bid, false).Equal(bid))
	assert.True(t, EventCost(BidCPA, EventConversion, bid, false).Equal(bid))

	assert.True(t, EventCost(BidCPM, EventClick, bid, false).IsZero())
	assert.True(t, EventCost(BidCPC, EventImpression, bid, false).IsZero())
	assert.True(t, EventCost(BidCPA, EventClick, bid, false).IsZero())

	// House ads never cost anything.
	assert.True(t, EventCost(BidCPM, EventImpression, bid, true).IsZero())
	assert.True(t, EventCost(BidCPC, EventClick, bid, true).IsZero())
}
