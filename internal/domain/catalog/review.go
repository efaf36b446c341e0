package catalog

// Review is a user review of one item. Reviews are immutable after creation;
// they reference the item by identifier (logical foreign key only).
type Review struct {
	itemID    string
	author    string
	rating    int
	title     string
	body      string
	pros      []string
	cons      []string
	verified  bool
	language  string
	embedding []float32
}

// ReconstructReview rebuilds a review from storage without validation.
func ReconstructReview(
	itemID, author string, rating int,
	title, body string,
	pros, cons []string,
	verified bool, language string,
	embedding []float32,
) Review {
	return Review{
		itemID: itemID, author: author, rating: rating,
		title: title, body: body,
		pros: pros, cons: cons,
		verified: verified, language: language,
		embedding: embedding,
	}
}

// ItemID returns the reviewed item identifier.
func (r *Review) ItemID() string { return r.itemID }

// Author returns the authoring user name.
func (r *Review) Author() string { return r.author }

// Rating returns the review rating (1-5).
func (r *Review) Rating() int { return r.rating }

// Title returns the review title.
func (r *Review) Title() string { return r.title }

// Body returns the review body text.
func (r *Review) Body() string { return r.body }

// Pros returns the short positive phrases.
func (r *Review) Pros() []string { return r.pros }

// Cons returns the short negative phrases.
func (r *Review) Cons() []string { return r.cons }

// Verified reports whether the purchase was verified.
func (r *Review) Verified() bool { return r.verified }

// Language returns the review language tag.
func (r *Review) Language() string { return r.language }

// Embedding returns the body text embedding.
func (r *Review) Embedding() []float32 { return r.embedding }

// HasEmbedding reports whether the review participates in semantic matching.
func (r *Review) HasEmbedding() bool { return len(r.embedding) > 0 }
