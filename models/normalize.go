package models

// The wardrobe data has passed through several schema revisions: state names
// changed, tier went from scalar to list, tone tags were renamed. Reads from
// storage and imports of old client exports funnel through
// NormalizeLegacyGarment so the rest of the code only ever sees the current
// schema.

// legacyStates maps retired state names to their current equivalents
var legacyStates = map[string]string{
	"Late":             StateCheckedOut,
	"In Care / Repair": StateInCare,
}

// legacyTiers maps retired tier spellings to their current equivalents
var legacyTiers = map[string]string{
	"High-Risk": "High Risk",
}

// NormalizeLegacyGarment rewrites a garment read from storage into the
// canonical schema. It is pure: the input is not modified.
func NormalizeLegacyGarment(g Garment) Garment {
	if mapped, ok := legacyStates[g.Attributes.State]; ok {
		g.Attributes.State = mapped
	}

	if len(g.Attributes.Tier) > 0 {
		tier := make(StringList, len(g.Attributes.Tier))
		for i, t := range g.Attributes.Tier {
			if mapped, ok := legacyTiers[t]; ok {
				tier[i] = mapped
			} else {
				tier[i] = t
			}
		}
		g.Attributes.Tier = tier
	}

	// Tone tags were renamed to colorTones; older records carried them
	// under "tones" in the extra bag.
	if len(g.Attributes.ColorTones) == 0 {
		if tones, ok := g.Attributes.Extra["tones"]; ok {
			g.Attributes.ColorTones = tones
			extra := make(map[string]StringList, len(g.Attributes.Extra))
			for k, v := range g.Attributes.Extra {
				if k != "tones" {
					extra[k] = v
				}
			}
			if len(extra) == 0 {
				extra = nil
			}
			g.Attributes.Extra = extra
		}
	}

	// closetClassification was removed from the schema entirely
	if _, ok := g.Attributes.Extra["closetClassification"]; ok {
		extra := make(map[string]StringList, len(g.Attributes.Extra))
		for k, v := range g.Attributes.Extra {
			if k != "closetClassification" {
				extra[k] = v
			}
		}
		if len(extra) == 0 {
			extra = nil
		}
		g.Attributes.Extra = extra
	}

	// SyncDerived re-derives completionStatus, so stale or unknown values
	// from old records are corrected here as well.
	g.SyncDerived()
	return g
}
