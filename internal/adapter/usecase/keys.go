package usecase

import (
	"fmt"
	"time"
)

// Cache/counter key namespaces. Frequency and stat keys embed the period so
// counters roll over naturally together with their TTLs.
const activeCampaignsKey = "ads:active"

func statHourlyKey(campaignID int64, t time.Time) string {
	return fmt.Sprintf("stat:h:%d:%s", campaignID, t.UTC().Format("2006010215"))
}

func freqDailyKey(userID string, campaignID int64, t time.Time) string {
	return fmt.Sprintf("freq:d:%s:%d:%s", userID, campaignID, t.UTC().Format("20060102"))
}

func freqHourlyKey(userID string, campaignID int64, t time.Time) string {
	return fmt.Sprintf("freq:h:%s:%d:%s", userID, campaignID, t.UTC().Format("2006010215"))
}
