package utils

import (
	"fmt"
	"time"
)

// GenerateSKU produces an inventory SKU like WM-20260831-4821. The suffix is
// taken from the current clock, which is unique enough for a single-admin
// intake flow.
func GenerateSKU() string {
	now := time.Now()
	millis := now.UnixMilli() % 10000
	return fmt.Sprintf("WM-%s-%04d", now.Format("20060102"), millis)
}
