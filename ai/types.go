package ai

// DefaultEntityTypes lists the entity categories offered to callers that
// want to restrict extraction. An empty selection means "extract all".
var DefaultEntityTypes = []string{
	"Person",
	"Orders",
	"Organization",
	"Date",
	"Time",
	"Location",
	"Money",
	"Product",
}

// Entity is one extracted span as the model is instructed to report it.
type Entity struct {
	// Type is the entity category (e.g. "Person", "Date").
	Type string `json:"type"`

	// Text is the exact phrase from the source email.
	Text string `json:"text"`

	// Context is a short supporting phrase or sentence.
	Context string `json:"context"`
}

// Extraction is the JSON document shape the model is instructed to emit.
// The core never parses model output itself; this type exists for display
// layers that attempt to render the raw text as structured JSON.
type Extraction struct {
	Entities []Entity `json:"entities"`
}
