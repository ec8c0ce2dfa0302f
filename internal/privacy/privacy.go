// Package privacy defines the sensitive-data detection and sanitization
// contract enforced around every AI provider call, plus a default
// pattern-based detector. Detection rules are pluggable; the proxy depends
// only on the Detector interface.
package privacy

import (
	"fmt"
	"sort"
	"strings"
)

// SpanType categorizes a detected sensitive substring. Only the category tag
// ever crosses a logging or network boundary; the underlying text does not.
type SpanType string

const (
	SpanSSN        SpanType = "SSN"
	SpanEmail      SpanType = "EMAIL"
	SpanPhone      SpanType = "PHONE"
	SpanCardNumber SpanType = "CARD_NUMBER"
)

// Span marks a sensitive substring as a byte-offset range in the source text.
// End is exclusive.
type Span struct {
	Type  SpanType
	Start int
	End   int
}

// Detector finds sensitive spans in text. Implementations must return spans
// ordered by start offset and non-overlapping.
type Detector interface {
	Detect(text string) []Span
}

// Result is the output of sanitization: the text with spans replaced by
// opaque placeholders, and the spans that were actually replaced, in source
// order.
type Result struct {
	Sanitized string
	Entities  []Span
}

// Sanitize replaces each span with a placeholder of the form [TYPE]. Spans
// that overlap an earlier replacement or fall outside the text are skipped
// and do not appear in Entities. A single pass does not guarantee the output
// is free of matches: replacing a span can create a word boundary that
// exposes a residual match. Use SanitizeAll when that guarantee is needed.
func Sanitize(text string, spans []Span) Result {
	if len(spans) == 0 {
		return Result{Sanitized: text}
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	var b strings.Builder
	replaced := make([]Span, 0, len(ordered))
	last := 0
	for _, sp := range ordered {
		if sp.Start < last || sp.End > len(text) || sp.Start > sp.End {
			continue
		}
		b.WriteString(text[last:sp.Start])
		b.WriteString(Placeholder(sp.Type))
		replaced = append(replaced, sp)
		last = sp.End
	}
	b.WriteString(text[last:])

	return Result{Sanitized: b.String(), Entities: replaced}
}

// maxSanitizePasses bounds the detect-replace loop. Every replacement removes
// at least one digit or @ character and placeholders contain neither, so the
// loop terminates well within the bound for any realistic input.
const maxSanitizePasses = 10

// SanitizeAll repeatedly detects and replaces until d finds nothing in the
// output, so re-running detection on Sanitized yields an empty span set.
// Entities accumulates the spans replaced across passes; offsets are relative
// to the text of the pass that replaced them.
func SanitizeAll(d Detector, text string) Result {
	var entities []Span
	for i := 0; i < maxSanitizePasses; i++ {
		spans := d.Detect(text)
		if len(spans) == 0 {
			break
		}
		res := Sanitize(text, spans)
		entities = append(entities, res.Entities...)
		text = res.Sanitized
	}
	return Result{Sanitized: text, Entities: entities}
}

// Placeholder returns the opaque replacement token for a span category.
func Placeholder(t SpanType) string {
	return fmt.Sprintf("[%s]", t)
}

// Tags returns only the category tags of spans, for audit logging.
func Tags(spans []Span) []string {
	tags := make([]string, len(spans))
	for i, sp := range spans {
		tags[i] = string(sp.Type)
	}
	return tags
}
