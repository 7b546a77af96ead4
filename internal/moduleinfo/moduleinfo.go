package moduleinfo

// Metadata captures static identifiers for the pipeline. Centralising the
// values makes it easy to clone this repository for new deployments.
type Metadata struct {
	Name        string
	BinaryName  string
	Slug        string
	Description string
	GeneratorID string
}

// Info describes the current module.
var Info = Metadata{
	Name:        "Pulpitworks Sermon Pipeline",
	BinaryName:  "sermon-pipeline",
	Slug:        "sermon-pipeline",
	Description: "Sermon audio-to-transcript processing pipeline with scripture-aware correction.",
	GeneratorID: "sermon-pipeline",
}

// TranscriptMetadata produces the standard metadata payload attached
// to persisted transcripts.
func TranscriptMetadata(modelVariant, language string) map[string]string {
	return map[string]string{
		"generator":     Info.GeneratorID,
		"model_variant": modelVariant,
		"language":      language,
	}
}
