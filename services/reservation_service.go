package services

import (
	"errors"
	"fmt"

	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"gorm.io/gorm"
)

// ErrGarmentNotFound is returned when the garment id does not exist
var ErrGarmentNotFound = errors.New("garment not found")

// NotAvailableError is returned when a reservation is attempted on a garment
// that is not Available. State carries the garment's actual current state so
// callers can report it.
type NotAvailableError struct {
	State string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("garment is not available (state: %s)", e.State)
}

// ReserveGarment attempts to transition a garment from Available to
// Reserved, stamping the caller-supplied reservation token. The
// read-then-write runs inside a single transaction with the state change
// guarded by a conditional update, so two concurrent reservers get exactly
// one success and one NotAvailableError.
//
// The token must already be validated (non-empty, trimmed) by the caller.
func ReserveGarment(db *gorm.DB, id, token string) (*models.Garment, error) {
	var reserved models.Garment

	err := db.Transaction(func(tx *gorm.DB) error {
		var g models.Garment
		if err := tx.Where("id = ?", id).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGarmentNotFound
			}
			return fmt.Errorf("failed to read garment: %w", err)
		}

		g = models.NormalizeLegacyGarment(g)
		if g.State != models.StateAvailable {
			return &NotAvailableError{State: g.State}
		}

		now := models.NowISO()
		g.Attributes.State = models.StateReserved
		g.Attributes.ReservedAt = &now
		g.Attributes.ReservedByToken = &token
		g.SyncDerived()
		g.UpdatedAt = now

		// The state guard makes the write a compare-and-swap: if another
		// transaction reserved the garment between our read and this
		// update, zero rows change and we report the loss as a conflict.
		res := tx.Model(&models.Garment{}).
			Where("id = ? AND state = ?", id, models.StateAvailable).
			Select("state", "reserved_at", "reserved_by_token", "attributes", "updated_at").
			Updates(&g)
		if res.Error != nil {
			return fmt.Errorf("failed to reserve garment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.Garment
			if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
				return fmt.Errorf("failed to re-read garment: %w", err)
			}
			return &NotAvailableError{State: current.State}
		}

		reserved = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &reserved, nil
}

// UnreserveGarments clears the reservation on each listed garment, putting
// it back to Available. Ids that do not exist are skipped; the count of
// garments actually cleared is returned.
func UnreserveGarments(db *gorm.DB, ids []string) (int, error) {
	cleared := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			var g models.Garment
			if err := tx.Where("id = ?", id).First(&g).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to read garment: %w", err)
			}

			g = models.NormalizeLegacyGarment(g)
			g.Attributes.State = models.StateAvailable
			g.Attributes.ReservedAt = nil
			g.Attributes.ReservedByToken = nil
			g.SyncDerived()
			g.UpdatedAt = models.NowISO()

			res := tx.Model(&models.Garment{}).
				Where("id = ?", id).
				Select("state", "reserved_at", "reserved_by_token", "attributes", "updated_at").
				Updates(&g)
			if res.Error != nil {
				return fmt.Errorf("failed to unreserve garment: %w", res.Error)
			}
			cleared++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return cleared, nil
}
