package dish

import "errors"

// Sentinel values used when the model reply carries no usable name or origin.
const (
	UnknownName   = "Unknown Dish"
	UnknownRegion = "Origin not specified"
)

// ErrMissingAPIKey is returned by a provider when its API credential is not
// configured in the environment. The handler maps it to 503 before any model
// call is made.
var ErrMissingAPIKey = errors.New("model API key is not configured")

// Result represents an identified dish as returned to the client.
type Result struct {
	Name         string   `json:"name"`
	Region       string   `json:"region"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	FunFacts     []string `json:"funFacts"`
}

// Normalize enforces the record's invariants: Name and Region always carry a
// value and the three list fields are never nil, so consumers can iterate
// without checking.
func (r *Result) Normalize() {
	if r.Name == "" {
		r.Name = UnknownName
	}
	if r.Region == "" {
		r.Region = UnknownRegion
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.FunFacts == nil {
		r.FunFacts = []string{}
	}
}

// Placeholder is the fixed result returned when the model reply yields
// nothing usable. A malformed reply is reported as a low-quality result, not
// as an error.
func Placeholder() *Result {
	return &Result{
		Name:         UnknownName,
		Region:       UnknownRegion,
		Ingredients:  []string{},
		Instructions: []string{},
		FunFacts:     []string{"We couldn't identify this dish. Try a sharper, well-lit photo taken from above."},
	}
}

// Prompt is the fixed instruction sent to the model alongside the image. Both
// providers use it verbatim so their replies parse through the same pipeline.
const Prompt = "Identify the dish in this image. Return a single, clean JSON object with the following keys: " +
	"'name' (string), 'region' (string describing the cuisine or origin), 'ingredients' (array of strings), " +
	"'instructions' (array of strings, one preparation step each), and 'funFacts' (array of strings with " +
	"interesting trivia about the dish). The JSON response should be clean and not contain any markdown " +
	"formatting (e.g., ```json)."
