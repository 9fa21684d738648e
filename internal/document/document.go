// Package document defines the values produced by one processing call.
// Nothing here is mutated after the Processor returns it.
package document

// File is an uploaded document as received from the caller.
type File struct {
	Name     string // Declared file name, used for extension dispatch
	MIMEType string // Declared MIME type, may be empty
	Data     []byte
}

// ProcessedDocument is the result of processing one file.
type ProcessedDocument struct {
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	Structure Structure `json:"structure"`
	Analysis  Analysis  `json:"analysis"`
}

// Metadata is derived from the extraction step.
type Metadata struct {
	FileName         string   `json:"fileName"`
	FileSize         int64    `json:"fileSize"`
	Format           string   `json:"format"`
	PageCount        int      `json:"pageCount,omitempty"` // 0 when the format has no pages
	WordCount        int      `json:"wordCount"`
	CharacterCount   int      `json:"characterCount"`
	ProcessingTimeMs int64    `json:"processingTime"`
	ExtractionMethod string   `json:"extractionMethod"`
	Warnings         []string `json:"warnings,omitempty"`
}

// WarningEmptyInput marks a document whose normalized content is empty.
const WarningEmptyInput = "empty_input"

// Structure is the coarse layout inferred from normalized text.
type Structure struct {
	Sections  []Section `json:"sections"`
	Headings  []string  `json:"headings"`
	Tables    []Table   `json:"tables"`
	Lists     []List    `json:"lists"`
	Footnotes []string  `json:"footnotes"` // reserved, always empty
}

// Section is a contiguous span of text under one heading.
type Section struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Level     int    `json:"level"`
	WordCount int    `json:"wordCount"`
}

// Table is a delimited block of rows sharing a field count.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Caption string     `json:"caption,omitempty"`
}

// ListKind distinguishes numbered from bulleted lists.
type ListKind string

const (
	ListOrdered   ListKind = "ordered"
	ListUnordered ListKind = "unordered"
)

// List is a run of consecutive list items of one kind.
type List struct {
	Kind  ListKind `json:"type"`
	Items []string `json:"items"`
}

// Complexity is the coarse difficulty class of a document.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Rank orders complexities low < medium < high. Unknown values rank 0.
func (c Complexity) Rank() int {
	switch c {
	case ComplexityLow:
		return 1
	case ComplexityMedium:
		return 2
	case ComplexityHigh:
		return 3
	}
	return 0
}

// Analysis holds the quantitative content metrics.
type Analysis struct {
	Complexity         Complexity `json:"complexity"`
	JargonDensity      float64    `json:"jargonDensity"`
	TechnicalTerms     []string   `json:"technicalTerms"`
	KeyPhrases         []string   `json:"keyPhrases"`
	ReadabilityScore   float64    `json:"readabilityScore"`
	SuggestedQuestions []string   `json:"suggestedQuestions"`
}

// Chunk is a sized slice of section text with its heading context,
// intended as prompt context for a downstream AI layer.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb"`
}
