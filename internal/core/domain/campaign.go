package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state shared by campaigns and creatives.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusEnded  Status = "ended"
)

// BidType selects the pricing model of a campaign.
type BidType string

const (
	BidCPM  BidType = "cpm"
	BidCPC  BidType = "cpc"
	BidCPA  BidType = "cpa"
	BidOCPM BidType = "ocpm"
)

// Campaign represents an advertising campaign. Monetary amounts are
// fixed-point decimals; budgets are nullable, a null budget means unlimited.
// When loaded through the campaign cache the struct is denormalized and
// carries its active creatives and parsed targeting rules.
type Campaign struct {
	ID           int64   `json:"id"`
	AdvertiserID int64   `json:"advertiser_id"`
	Name         string  `json:"name"`
	Status       Status  `json:"status"`
	BidType      BidType `json:"bid_type"`

	BidAmount   decimal.Decimal     `json:"bid_amount"`
	BudgetDaily decimal.NullDecimal `json:"budget_daily"`
	BudgetTotal decimal.NullDecimal `json:"budget_total"`
	SpentToday  decimal.Decimal     `json:"spent_today"`
	SpentTotal  decimal.Decimal     `json:"spent_total"`

	FreqCapDaily  int     `json:"freq_cap_daily"`
	FreqCapHourly int     `json:"freq_cap_hourly"`
	PriorityBoost float64 `json:"priority_boost"`
	IsHouseAd     bool    `json:"is_house_ad"`

	// PageTargetingRaw and TargetDomainsRaw hold the stored JSON as-is.
	// Malformed content is interpreted as "no constraint" at read time.
	PageTargetingRaw []byte `json:"page_targeting,omitempty"`
	TargetDomainsRaw []byte `json:"target_domains,omitempty"`

	Creatives []Creative      `json:"creatives,omitempty"`
	Rules     []TargetingRule `json:"rules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreativeType distinguishes ad formats.
type CreativeType string

const (
	CreativeBanner       CreativeType = "banner"
	CreativeNative       CreativeType = "native"
	CreativeVideo        CreativeType = "video"
	CreativeInterstitial CreativeType = "interstitial"
)

// Creative is an individual advertisement owned by a campaign. Width and
// height are zero when the creative has no recorded dimensions; such
// creatives are accepted for any slot.
type Creative struct {
	ID          int64        `json:"id"`
	CampaignID  int64        `json:"campaign_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ImageURL    string       `json:"image_url"`
	VideoURL    string       `json:"video_url"`
	LandingURL  string       `json:"landing_url"`
	Type        CreativeType `json:"creative_type"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Status      Status       `json:"status"`
}

// CampaignSpend is the committed budget/spend view the admission controller
// reads. It is fetched fresh from the store rather than from the snapshot
// cache so caps are enforced against recent ledger writes.
type CampaignSpend struct {
	CampaignID  int64
	SpentToday  decimal.Decimal
	SpentTotal  decimal.Decimal
	BudgetDaily decimal.NullDecimal
	BudgetTotal decimal.NullDecimal
}

// OverDailyBudget reports whether today's spend has reached the daily budget.
func (s CampaignSpend) OverDailyBudget() bool {
	return s.BudgetDaily.Valid && s.SpentToday.GreaterThanOrEqual(s.BudgetDaily.Decimal)
}

// OverTotalBudget reports whether lifetime spend has reached the total budget.
func (s CampaignSpend) OverTotalBudget() bool {
	return s.BudgetTotal.Valid && s.SpentTotal.GreaterThanOrEqual(s.BudgetTotal.Decimal)
}
