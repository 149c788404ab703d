package models

// CardTags are the tag arrays shown on a public catalog card
type CardTags struct {
	Vibes      StringList `json:"vibes"`
	Era        StringList `json:"era"`
	ColorTones StringList `json:"colorTones"`
	Pockets    StringList `json:"pockets"`
	Enclosures StringList `json:"enclosures"`
}

// Card is the lightweight public catalog projection of a garment
type Card struct {
	ID              string     `json:"id"`
	Name            *string    `json:"name"`
	Brand           *string    `json:"brand"`
	Category        *string    `json:"category"`
	Size            *string    `json:"size"`
	Tier            StringList `json:"tier"`
	State           *string    `json:"state"`
	PrimaryPhotoURL *string    `json:"primaryPhotoUrl"`
	PhotoURLs       []string   `json:"photoUrls"`
	Tags            CardTags   `json:"tags"`
}

// ToCard projects a garment onto its public catalog card
func (g *Garment) ToCard() Card {
	card := Card{
		ID:        g.ID,
		Name:      optional(g.Name),
		Brand:     optional(g.Attributes.Brand),
		Category:  optional(g.Attributes.Category),
		Size:      optional(g.Attributes.Size),
		Tier:      emptyList(g.Attributes.Tier),
		State:     optional(g.State),
		PhotoURLs: g.Photos.URLs(),
		Tags: CardTags{
			Vibes:      emptyList(g.Attributes.Vibes),
			Era:        emptyList(g.Attributes.Era),
			ColorTones: emptyList(g.Attributes.ColorTones),
			Pockets:    emptyList(g.Attributes.Pockets),
			Enclosures: emptyList(g.Attributes.Enclosures),
		},
	}
	if card.PhotoURLs == nil {
		card.PhotoURLs = []string{}
	}
	if primary := g.Photos.Primary(); primary != nil {
		card.PrimaryPhotoURL = optional(primary.URL())
	}
	return card
}

// PublicGarment is the public detail projection: raw photos and the full
// attribute bag, name left null when untitled
type PublicGarment struct {
	ID         string     `json:"id"`
	Name       *string    `json:"name"`
	Photos     PhotoList  `json:"photos"`
	Attributes Attributes `json:"attributes"`
	CreatedAt  string     `json:"createdAt"`
	UpdatedAt  string     `json:"updatedAt"`
}

// ToPublic projects a garment onto its public detail view
func (g *Garment) ToPublic() PublicGarment {
	photos := g.Photos
	if photos == nil {
		photos = PhotoList{}
	}
	return PublicGarment{
		ID:         g.ID,
		Name:       optional(g.Name),
		Photos:     photos,
		Attributes: g.Attributes,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyList(l StringList) StringList {
	if l == nil {
		return StringList{}
	}
	return l
}
