package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"gorm.io/gorm"
)

const (
	// candidatePoolSize caps how many Available garments are scored
	candidatePoolSize = 120

	// categoryWeight is the score for an exact category match. It is
	// deliberately larger than any single tag-overlap point so a matching
	// category outranks a handful of incidental tag overlaps.
	categoryWeight = 5
)

// Alternatives ranks Available garments by similarity to the seed garment:
// categoryWeight for an exact category match plus one point per overlapping
// vibe, era, and color-tone tag. Ties keep the candidate pool's order. The
// seed itself and non-Available garments never appear in the result.
func Alternatives(db *gorm.DB, seedID string, limit int) ([]models.Card, error) {
	var seed models.Garment
	if err := db.Where("id = ?", seedID).First(&seed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGarmentNotFound
		}
		return nil, fmt.Errorf("failed to read seed garment: %w", err)
	}
	seed = models.NormalizeLegacyGarment(seed)

	var candidates []models.Garment
	if err := db.
		Where("state = ? AND id <> ?", models.StateAvailable, seed.ID).
		Limit(candidatePoolSize).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	type scored struct {
		garment models.Garment
		score   int
	}
	pool := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		c = models.NormalizeLegacyGarment(c)
		s := 0
		if seed.Attributes.Category != "" && c.Attributes.Category == seed.Attributes.Category {
			s += categoryWeight
		}
		s += overlap(seed.Attributes.Vibes, c.Attributes.Vibes)
		s += overlap(seed.Attributes.Era, c.Attributes.Era)
		s += overlap(seed.Attributes.ColorTones, c.Attributes.ColorTones)
		pool = append(pool, scored{garment: c, score: s})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].score > pool[j].score
	})

	if limit > len(pool) {
		limit = len(pool)
	}
	cards := make([]models.Card, 0, limit)
	for _, sc := range pool[:limit] {
		cards = append(cards, sc.garment.ToCard())
	}
	return cards, nil
}

// overlap counts the elements of a that also appear in b
func overlap(a, b models.StringList) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, x := range b {
		set[x] = struct{}{}
	}
	n := 0
	for _, x := range a {
		if _, ok := set[x]; ok {
			n++
		}
	}
	return n
}
