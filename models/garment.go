package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Inventory states a garment can be in
const (
	StateAvailable  = "Available"
	StateReserved   = "Reserved"
	StateCheckedOut = "Checked Out"
	StateInCare     = "In Care"
)

// Completion statuses derived from (name, photos)
const (
	StatusDraft    = "DRAFT"
	StatusComplete = "COMPLETE"
)

// UntitledName is the display sentinel for garments without a real name.
// It is never persisted; blank names are stored as the empty string.
const UntitledName = "Untitled garment"

// MaxPhotos is the maximum number of photos per garment
const MaxPhotos = 5

// Photo is one photo attached to a garment. Either Src (a URL) or DataURL
// (inline) must be set. At most one photo per garment is primary; if any
// photo exists, exactly one must be.
type Photo struct {
	ID        string `json:"id"`
	Src       string `json:"src,omitempty"`
	DataURL   string `json:"dataUrl,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	FileName  string `json:"fileName,omitempty"`
}

// URL returns the displayable location of the photo
func (p Photo) URL() string {
	if p.Src != "" {
		return p.Src
	}
	return p.DataURL
}

// PhotoList is stored as a JSON column
type PhotoList []Photo

// Primary returns the primary photo, falling back to the first one
func (l PhotoList) Primary() *Photo {
	for i := range l {
		if l[i].IsPrimary {
			return &l[i]
		}
	}
	if len(l) > 0 {
		return &l[0]
	}
	return nil
}

// URLs returns every non-empty photo location in order
func (l PhotoList) URLs() []string {
	urls := make([]string, 0, len(l))
	for _, p := range l {
		if u := p.URL(); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Normalize enforces the primary-photo invariant: with any photos present,
// exactly one is primary (the first marked one wins, otherwise photo 0).
func (l PhotoList) Normalize() PhotoList {
	if len(l) == 0 {
		return PhotoList{}
	}
	out := make(PhotoList, len(l))
	copy(out, l)
	primary := -1
	for i := range out {
		if out[i].IsPrimary {
			if primary == -1 {
				primary = i
			} else {
				out[i].IsPrimary = false
			}
		}
	}
	if primary == -1 {
		out[0].IsPrimary = true
	}
	return out
}

// StringList accepts either a JSON string or an array of strings. Older
// records stored some multi-value fields (tier, pockets) as scalars.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (s *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*s = StringList{}
		return nil
	}
	*s = StringList{one}
	return nil
}

// Contains reports whether v is in the list
func (s StringList) Contains(v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Review is a free-text note attached to a garment
type Review struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

// Suggested holds vision-assisted attribute suggestions. They are advisory
// and always editable; the service never writes them itself.
type Suggested struct {
	GarmentType    string `json:"garmentType,omitempty"`
	Category       string `json:"category,omitempty"`
	DominantColor  string `json:"dominantColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	Pattern        string `json:"pattern,omitempty"`
	Texture        string `json:"texture,omitempty"`
	Silhouette     string `json:"silhouette,omitempty"`
	Length         string `json:"length,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Attributes is the descriptive bag for a garment: a fixed core schema plus
// an explicit Extra escape hatch for values outside it. State and the
// reservation fields live here as well so the bag round-trips as one unit;
// Garment keeps them mirrored in real columns for querying.
type Attributes struct {
	State           string  `json:"state"`
	ReservedAt      *string `json:"reservedAt,omitempty"`
	ReservedByToken *string `json:"reservedByToken,omitempty"`

	// Core identity
	SKU         string `json:"sku,omitempty"`
	GarmentType string `json:"garmentType,omitempty"`
	Category    string `json:"category,omitempty"`
	Brand       string `json:"brand,omitempty"`
	DateAdded   string `json:"dateAdded,omitempty"`

	// Size & fit
	Size            string     `json:"size,omitempty"`
	Fit             StringList `json:"fit,omitempty"`
	SpecialFitNotes string     `json:"specialFitNotes,omitempty"`

	// Material & care
	Fabrics   StringList `json:"fabrics,omitempty"`
	Care      StringList `json:"care,omitempty"`
	CareNotes string     `json:"careNotes,omitempty"`

	// Aesthetic metadata
	Vibes      StringList `json:"vibes,omitempty"`
	Colors     StringList `json:"colors,omitempty"`
	ColorTones StringList `json:"colorTones,omitempty"`
	Pattern    StringList `json:"pattern,omitempty"`
	Texture    StringList `json:"texture,omitempty"`
	Silhouette StringList `json:"silhouette,omitempty"`
	Length     StringList `json:"length,omitempty"`

	// Construction details
	SpecialFeatures StringList `json:"specialFeatures,omitempty"`
	Enclosures      StringList `json:"enclosures,omitempty"`
	Pockets         StringList `json:"pockets,omitempty"`

	// Era & story
	Era     StringList `json:"era,omitempty"`
	Stories string     `json:"stories,omitempty"`

	Reviews   []Review  `json:"reviews,omitempty"`
	Suggested Suggested `json:"suggested,omitzero"`

	// Economics
	Tier           StringList `json:"tier,omitempty"`
	GlitcoinBorrow *int       `json:"glitcoinBorrow,omitempty"`
	GlitcoinLust   *int       `json:"glitcoinLustLost,omitempty"`
	InternalNotes  string     `json:"internalNotes,omitempty"`

	// Anything the fixed schema doesn't know about
	Extra map[string]StringList `json:"extra,omitempty"`
}

// Garment represents one inventory item
type Garment struct {
	ID               string     `gorm:"primaryKey" json:"id"`
	Name             string     `json:"name"`
	CompletionStatus string     `gorm:"not null;default:'DRAFT'" json:"completionStatus"`
	State            string     `gorm:"not null;default:'Available';index" json:"state"`
	ReservedAt       *string    `json:"reservedAt,omitempty"`
	ReservedByToken  *string    `json:"reservedByToken,omitempty"`
	Photos           PhotoList  `gorm:"serializer:json" json:"photos"`
	Attributes       Attributes `gorm:"serializer:json" json:"attributes"`
	IntakeSessionID  *string    `json:"intakeSessionId,omitempty"`
	IntakeOrder      *int       `json:"intakeOrder,omitempty"`
	CreatedAt        string     `gorm:"not null" json:"createdAt"`
	UpdatedAt        string     `gorm:"not null;index" json:"updatedAt"`
}

// TableName specifies the table name for the Garment model
func (Garment) TableName() string {
	return "garments"
}

// DisplayName returns the name shown to users, substituting the sentinel
// for blank names
func (g *Garment) DisplayName() string {
	if strings.TrimSpace(g.Name) == "" {
		return UntitledName
	}
	return g.Name
}

// SyncDerived recomputes completionStatus, normalizes photos, and mirrors
// the reservation fields between the attributes bag and their columns.
// Call before every write.
func (g *Garment) SyncDerived() {
	g.Name = CleanName(g.Name)
	g.Photos = g.Photos.Normalize()
	g.CompletionStatus = ComputeCompletionStatus(g.Name, g.Photos)
	if g.Attributes.State == "" {
		g.Attributes.State = StateAvailable
	}
	g.State = g.Attributes.State
	g.ReservedAt = g.Attributes.ReservedAt
	g.ReservedByToken = g.Attributes.ReservedByToken
}

// ComputeCompletionStatus derives the draft/complete flag: COMPLETE iff at
// least one photo exists and the trimmed name is neither blank nor the
// sentinel.
func ComputeCompletionStatus(name string, photos PhotoList) string {
	n := strings.TrimSpace(name)
	if len(photos) > 0 && n != "" && n != UntitledName {
		return StatusComplete
	}
	return StatusDraft
}

// CleanName trims the name and maps the sentinel to the empty string
func CleanName(name string) string {
	n := strings.TrimSpace(name)
	if n == UntitledName {
		return ""
	}
	return n
}

// NowISO returns the current UTC time as an ISO-8601 string. The fractional
// seconds are fixed-width so the strings order chronologically when compared
// as plain strings.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
