package transcripts

// Variant identifies which processing stage produced a transcript file.
type Variant string

const (
	// VariantAIFiltered marks AI-filtered suggestion files, the preferred input.
	VariantAIFiltered Variant = "ai_filtered"
	// VariantLocallyFiltered marks locally filtered transcripts.
	VariantLocallyFiltered Variant = "locally_filtered"
	// VariantRaw marks unfiltered transcription output.
	VariantRaw Variant = "raw"
)

// suffix returns the filename suffix the upstream processor uses for the variant.
func (v Variant) suffix() string {
	switch v {
	case VariantAIFiltered:
		return "_suggestion.json"
	case VariantLocallyFiltered:
		return "_locally_filtered.json"
	case VariantRaw:
		return "_transcription.json"
	default:
		return ""
	}
}

// variantPreference lists variants from most to least preferred. Selection is
// a three-tier fallback: the first tier with any matching files wins outright.
var variantPreference = []Variant{VariantAIFiltered, VariantLocallyFiltered, VariantRaw}
