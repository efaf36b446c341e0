package catalog

import (
	domcat "github.com/askora-ai/askora/internal/domain/catalog"
)

// itemDoc mirrors the stored JSON document. Older loader versions wrote
// camelCase field names and nested some numerics under "metadata"; the
// normalization below folds every variant into one canonical Item so the
// core never branches on schema generation.
type itemDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Brand       brandDoc `json:"brand"`
	Category    string   `json:"category"`

	Price        *float64 `json:"price"`
	Availability string   `json:"availability"`
	Rating       *float64 `json:"rating"`
	ReviewCount  *int     `json:"review_count"`

	Specs map[string]string `json:"specs"`

	TextEmbedding  []float32 `json:"text_embedding"`
	ImageEmbedding []float32 `json:"image_embedding"`

	// Legacy fields (pre-normalization loaders).
	LegacyPrice          *float64     `json:"priceUsd"`
	LegacyRating         *float64     `json:"avgRating"`
	LegacyReviewCount    *int         `json:"numReviews"`
	LegacyTextEmbedding  []float32    `json:"descriptionEmbedding"`
	LegacyImageEmbedding []float32    `json:"clipEmbedding"`
	Metadata             *metadataDoc `json:"metadata"`
}

type brandDoc struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type metadataDoc struct {
	Price       *float64 `json:"price_usd"`
	Rating      *float64 `json:"avg_rating"`
	ReviewCount *int     `json:"num_reviews"`
}

// toDomain normalizes a stored document into the canonical Item.
func (d *itemDoc) toDomain() domcat.Item {
	price := firstFloat(d.Price, d.LegacyPrice, metaPrice(d.Metadata))
	rating := firstFloat(d.Rating, d.LegacyRating, metaRating(d.Metadata))
	reviewCount := firstInt(d.ReviewCount, d.LegacyReviewCount, metaReviews(d.Metadata))

	textEmb := d.TextEmbedding
	if len(textEmb) == 0 {
		textEmb = d.LegacyTextEmbedding
	}
	imageEmb := d.ImageEmbedding
	if len(imageEmb) == 0 {
		imageEmb = d.LegacyImageEmbedding
	}

	availability := domcat.Availability(d.Availability)
	if !availability.IsValid() {
		availability = domcat.OutOfStock
	}

	return domcat.Reconstruct(
		d.ID, d.Name, d.Description,
		domcat.NewBrand(d.Brand.Name, d.Brand.Country), d.Category,
		price, availability,
		rating, reviewCount,
		d.Specs,
		textEmb, imageEmb,
	)
}

func metaPrice(m *metadataDoc) *float64 {
	if m == nil {
		return nil
	}
	return m.Price
}

func metaRating(m *metadataDoc) *float64 {
	if m == nil {
		return nil
	}
	return m.Rating
}

func metaReviews(m *metadataDoc) *int {
	if m == nil {
		return nil
	}
	return m.ReviewCount
}

func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
