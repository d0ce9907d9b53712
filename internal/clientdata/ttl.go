package clientdata

import "time"

// TTL constants for cached market data.
// These are added to time.Now() when storing to calculate expires_at.
const (
	TTLCompanyProfile = 24 * time.Hour // name, sector, beta and dividend change rarely
	TTLHistorical     = 6 * time.Hour  // daily closes, refreshed a few times per trading day
)
