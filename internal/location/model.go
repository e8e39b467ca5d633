package location

import (
	"time"

	"github.com/fkhayef/paylock/internal/account"
)

// Sample is the latest reported position of an account's device
type Sample struct {
	AccountID    int64     `json:"accountId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Address      string    `json:"address,omitempty"`
	Accuracy     *float64  `json:"accuracy,omitempty"`
	BatteryLevel *int      `json:"batteryLevel,omitempty"`
	IsCharging   *bool     `json:"isCharging,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Entry pairs a linked account with its last known position
type Entry struct {
	Account  *account.Account
	IsLocked bool
	Sample   *Sample
}
