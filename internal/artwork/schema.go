// Package artwork extracts structured cap specifications from customer
// artwork files (images or PDFs) via a vision/text model, validating the
// model's output against the supported vocabulary before anything
// downstream trusts it.
package artwork

// Asset is one logo element the model detected on a cap position.
type Asset struct {
	Position    string   `json:"position"`
	Description string   `json:"description"`
	Application string   `json:"application"`
	Colors      []string `json:"colors,omitempty"`
}

// Accessory is one label/tag element the model detected.
type Accessory struct {
	Category string `json:"category"`
	Label    string `json:"label"`
}

// Analysis is the JSON schema the model must fill.
type Analysis struct {
	CapColors   []string    `json:"capColors"`
	BillShape   string      `json:"billShape"`
	Assets      []Asset     `json:"assets"`
	Accessories []Accessory `json:"accessories"`
	Confidence  float64     `json:"confidence"`
}

// Status grades one processing run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Result is a validated, normalized analysis plus its derived status.
type Result struct {
	Analysis Analysis `json:"analysis"`
	Status   Status   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}
