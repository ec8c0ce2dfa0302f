package privacy

import (
	"regexp"
	"sort"
)

// RegexpDetector is the default Detector implementation, backed by a fixed
// set of category-tagged patterns.
type RegexpDetector struct {
	rules []detectionRule
}

type detectionRule struct {
	spanType SpanType
	re       *regexp.Regexp
}

var defaultRules = []detectionRule{
	{SpanSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{SpanEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{SpanCardNumber, regexp.MustCompile(`\b(?:\d[ -]?){13,16}\d\b`)},
	{SpanPhone, regexp.MustCompile(`(?:\+?\d{1,3}[ .-]?)?\(?\d{3}\)?[ .-]?\d{3}[ .-]?\d{4}\b`)},
}

// NewRegexpDetector creates a detector with the default rule set.
func NewRegexpDetector() *RegexpDetector {
	return &RegexpDetector{rules: defaultRules}
}

// Detect returns the sensitive spans found in text, ordered by start offset
// and non-overlapping. When two rules match overlapping ranges, the earlier
// (and for ties, longer) match wins.
func (d *RegexpDetector) Detect(text string) []Span {
	var found []Span
	for _, rule := range d.rules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			found = append(found, Span{Type: rule.spanType, Start: loc[0], End: loc[1]})
		}
	}
	if len(found) == 0 {
		return nil
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].End > found[j].End
	})

	spans := found[:0]
	lastEnd := -1
	for _, sp := range found {
		if sp.Start < lastEnd {
			continue
		}
		spans = append(spans, sp)
		lastEnd = sp.End
	}
	return spans
}
