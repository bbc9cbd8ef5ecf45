package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventType classifies a tracked ad event.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
)

// AdEvent is an immutable, append-only record of a tracked event. Cost is
// computed once at creation and never mutated afterwards.
type AdEvent struct {
	RequestID  string
	CampaignID int64
	CreativeID int64
	Type       EventType
	UserID     string
	EventTime  time.Time
	Cost       decimal.Decimal
}

// eventAliases maps the accepted wire spellings, including the short pixel
// codes, onto event types.
var eventAliases = map[string]EventType{
	"impression": EventImpression,
	"imp":        EventImpression,
	"v":          EventImpression,
	"click":      EventClick,
	"clk":        EventClick,
	"c":          EventClick,
	"conversion": EventConversion,
	"conv":       EventConversion,
	"x":          EventConversion,
}

// ParseEventType normalizes an event type string. Unknown spellings return
// ok=false and must not mutate any state.
func ParseEventType(s string) (EventType, bool) {
	et, ok := eventAliases[strings.ToLower(s)]
	return et, ok
}

// FormatAdID encodes the tracking identifier issued to callers.
func FormatAdID(campaignID, creativeID int64) string {
	return fmt.Sprintf("%d_%d", campaignID, creativeID)
}

// ParseAdID decodes a tracking identifier. Two encodings are accepted:
// "{campaign}_{creative}" and the legacy "ad_{campaign}_{creative}",
// disambiguated by the literal "ad" prefix token.
func ParseAdID(adID string) (campaignID, creativeID int64, err error) {
	parts := strings.Split(adID, "_")
	if len(parts) >= 3 && parts[0] == "ad" {
		parts = parts[1:3]
	}
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid ad id %q", adID)
	}
	campaignID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ad id %q", adID)
	}
	creativeID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ad id %q", adID)
	}
	return campaignID, creativeID, nil
}

var thousand = decimal.NewFromInt(1000)

// EventCost is the pure billing function: a charge applies only when the
// event type matches the campaign's pricing model, and house ads are always
// free. CPM and OCPM charge bid/1000 per impression, CPC charges the bid per
// click, CPA charges the bid per conversion.
func EventCost(bidType BidType, eventType EventType, bid decimal.Decimal, isHouseAd bool) decimal.Decimal {
	if isHouseAd {
		return decimal.Zero
	}
	switch bidType {
	case BidCPM, BidOCPM:
		if eventType == EventImpression {
			return bid.Div(thousand)
		}
	case BidCPC:
		if eventType == EventClick {
			return bid
		}
	case BidCPA:
		if eventType == EventConversion {
			return bid
		}
	}
	return decimal.Zero
}
