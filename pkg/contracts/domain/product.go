package domain

// ProductRecord is one catalog row as read from the input table.
// The annotation pipeline never writes to it.
type ProductRecord struct {
	Row             int      `json:"row"`
	Description     string   `json:"description"`
	DeclaredContent string   `json:"declared_content"`
	Price           *float64 `json:"price,omitempty"`
	CategoryKey     string   `json:"category_key"`
	SalesVolume     *float64 `json:"sales_volume,omitempty"`
}

// QuantityKind classifies what an extracted quantity measures
type QuantityKind string

const (
	QuantityKindNone         QuantityKind = "none"          // Nothing recognised
	QuantityKindWeightVolume QuantityKind = "weight_volume" // Grams or millilitres
	QuantityKindUnitCount    QuantityKind = "unit_count"    // Number of units in the pack
)

// ExtractedQuantity is the outcome of parsing a product description.
// MatchedText is empty exactly when Kind is QuantityKindNone.
type ExtractedQuantity struct {
	MatchedText string       `json:"matched_text"`
	Normalized  int64        `json:"normalized"`
	Kind        QuantityKind `json:"kind"`
}

// NoQuantity is the result for descriptions with no recognisable quantity
func NoQuantity() ExtractedQuantity {
	return ExtractedQuantity{Kind: QuantityKindNone}
}

// Found reports whether a quantity was recognised
func (q ExtractedQuantity) Found() bool {
	return q.Kind != "" && q.Kind != QuantityKindNone
}

// Amount returns the normalized value or nil when nothing was recognised
func (q ExtractedQuantity) Amount() *int64 {
	if !q.Found() {
		return nil
	}
	v := q.Normalized
	return &v
}
