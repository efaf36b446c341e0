// Package catalog holds the canonical in-memory catalog entities. Storage
// adapters normalize legacy schema variants into these types so downstream
// code never branches on field naming.
package catalog

// Availability is the stock state of an item.
type Availability string

// Availability states.
const (
	Available    Availability = "available"
	OutOfStock   Availability = "out_of_stock"
	Discontinued Availability = "discontinued"
)

// IsValid reports whether the availability state is known.
func (a Availability) IsValid() bool {
	switch a {
	case Available, OutOfStock, Discontinued:
		return true
	}
	return false
}

// Brand is an embedded manufacturer sub-record.
type Brand struct {
	name    string
	country string
}

// NewBrand creates a brand record.
func NewBrand(name, country string) Brand {
	return Brand{name: name, country: country}
}

// Name returns the brand name.
func (b Brand) Name() string { return b.name }

// Country returns the brand country of origin.
func (b Brand) Country() string { return b.country }

// Item is a catalog entry. The embeddings are retrieval-internal and are
// never exposed past the usecase layer.
type Item struct {
	id             string
	name           string
	description    string
	brand          Brand
	category       string
	price          float64
	availability   Availability
	rating         float64
	reviewCount    int
	specs          map[string]string
	textEmbedding  []float32
	imageEmbedding []float32
}

// Reconstruct rebuilds an item from storage without validation.
func Reconstruct(
	id, name, description string,
	brand Brand, category string,
	price float64, availability Availability,
	rating float64, reviewCount int,
	specs map[string]string,
	textEmbedding, imageEmbedding []float32,
) Item {
	return Item{
		id: id, name: name, description: description,
		brand: brand, category: category,
		price: price, availability: availability,
		rating: rating, reviewCount: reviewCount,
		specs:          specs,
		textEmbedding:  textEmbedding,
		imageEmbedding: imageEmbedding,
	}
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// Description returns the free-text description.
func (i *Item) Description() string { return i.description }

// Brand returns the manufacturer record.
func (i *Item) Brand() Brand { return i.brand }

// Category returns the category name.
func (i *Item) Category() string { return i.category }

// Price returns the price in USD.
func (i *Item) Price() float64 { return i.price }

// Availability returns the stock state.
func (i *Item) Availability() Availability { return i.availability }

// Rating returns the aggregate rating (0-5).
func (i *Item) Rating() float64 { return i.rating }

// ReviewCount returns the derived review count.
func (i *Item) ReviewCount() int { return i.reviewCount }

// Specs returns the key specification fields.
func (i *Item) Specs() map[string]string { return i.specs }

// TextEmbedding returns the description embedding.
func (i *Item) TextEmbedding() []float32 { return i.textEmbedding }

// ImageEmbedding returns the multimodal image embedding, nil when absent.
func (i *Item) ImageEmbedding() []float32 { return i.imageEmbedding }

// HasTextEmbedding reports whether the item participates in text retrieval.
func (i *Item) HasTextEmbedding() bool { return len(i.textEmbedding) > 0 }

// HasImageEmbedding reports whether the item participates in image retrieval.
func (i *Item) HasImageEmbedding() bool { return len(i.imageEmbedding) > 0 }
