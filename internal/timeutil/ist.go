package timeutil

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). The whole ledger runs
// on IST calendar days.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// Today returns the current IST calendar date as YYYY-MM-DD
func Today() string {
	return Now().Format("2006-01-02")
}
