package dish

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	namePattern   = regexp.MustCompile(`(?im)^\s*name\s*:\s*(.+)$`)
	regionPattern = regexp.MustCompile(`(?im)^\s*region\s*:\s*(.+)$`)
	bulletPattern = regexp.MustCompile(`^(?:[-•]|\d+\.)\s*(.*)$`)
)

// sectionLabels maps each list field to the label text located (case
// sensitively) in the model's free-text reply.
var sectionLabels = []struct {
	label  string
	assign func(*Result, []string)
}{
	{"Ingredients", func(r *Result, v []string) { r.Ingredients = v }},
	{"Instructions", func(r *Result, v []string) { r.Instructions = v }},
	{"Fun Facts", func(r *Result, v []string) { r.FunFacts = v }},
}

// Parse turns the model's raw text reply into a Result. Three tiers are
// attempted in order, first success wins: a strict JSON decode of the first
// brace-delimited object, a heuristic line scrape of labeled sections, and a
// fixed placeholder. Parse never fails; the caller always gets a normalized
// record.
func Parse(text string) *Result {
	if r := parseJSON(text); r != nil {
		r.Normalize()
		return r
	}

	r := scrapeSections(text)
	if r.Name == UnknownName && len(r.Ingredients) == 0 && len(r.Instructions) == 0 {
		return Placeholder()
	}
	r.Normalize()
	return r
}

// parseJSON extracts the widest brace-delimited substring (first '{' to last
// '}') and decodes it. The reply is prompted to be exactly this shape, so the
// shape check is strict: name must be a string, the three list fields must be
// present as arrays, and only region may be absent.
func parseJSON(text string) *Result {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start > end {
		return nil
	}

	var raw struct {
		Name         *string   `json:"name"`
		Region       *string   `json:"region"`
		Ingredients  *[]string `json:"ingredients"`
		Instructions *[]string `json:"instructions"`
		FunFacts     *[]string `json:"funFacts"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}
	if raw.Name == nil || raw.Ingredients == nil || raw.Instructions == nil || raw.FunFacts == nil {
		return nil
	}

	r := &Result{
		Name:         *raw.Name,
		Ingredients:  *raw.Ingredients,
		Instructions: *raw.Instructions,
		FunFacts:     *raw.FunFacts,
	}
	if raw.Region != nil {
		r.Region = *raw.Region
	}
	return r
}

// scrapeSections is the fallback for replies that ignored the JSON
// instruction. Name and region come from leading "label: value" lines
// (case-insensitive). Each list section re-scans the full text for its own
// label and collects the bullet or numbered lines that follow it.
func scrapeSections(text string) *Result {
	r := &Result{Name: UnknownName, Region: UnknownRegion}

	if m := namePattern.FindStringSubmatch(text); m != nil {
		r.Name = strings.TrimSpace(m[1])
	}
	if m := regionPattern.FindStringSubmatch(text); m != nil {
		r.Region = strings.TrimSpace(m[1])
	}

	for _, s := range sectionLabels {
		s.assign(r, scrapeList(text, s.label))
	}
	return r
}

// scrapeList collects the marker-prefixed lines following the first
// occurrence of label. Blank lines are tolerated before the run begins; once
// items are being collected, the first non-matching line ends the run.
func scrapeList(text, label string) []string {
	items := []string{}
	idx := strings.Index(text, label)
	if idx == -1 {
		return items
	}

	lines := strings.Split(text[idx:], "\n")
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(items) > 0 {
				break
			}
			continue
		}
		m := bulletPattern.FindStringSubmatch(trimmed)
		if m == nil {
			break
		}
		if item := strings.TrimSpace(m[1]); item != "" {
			items = append(items, item)
		}
	}
	return items
}
