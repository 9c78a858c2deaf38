package transport

// EvaluateConceptRequest submits a problem statement. ID is generated when empty.
type EvaluateConceptRequest struct {
	ID      string `json:"id"`
	Problem string `json:"problem"`
}

// AcceptConceptRequest optionally names the idea to create.
type AcceptConceptRequest struct {
	IdeaID string `json:"idea_id"`
}

type PositionIdeaRequest struct {
	ProductType string `json:"product_type"`
	Stage       string `json:"stage"`
	Region      string `json:"region"`
}
