package services

// LLMParameters are optional sampling parameters. A nil field leaves the provider default in place.
type LLMParameters struct {
	Temperature      *float32 `yaml:"temperature"`
	TopP             *float32 `yaml:"topP"`
	Stop             []string `yaml:"stop"`
	PresencePenalty  *float32 `yaml:"presencePenalty"`
	FrequencyPenalty *float32 `yaml:"frequencyPenalty"`
	Seed             *int     `yaml:"seed"`
}

// DefaultSystemPrompt keeps replies short enough for a single-line widget.
const DefaultSystemPrompt = "Be concise. 10 words or fewer. Don't be conversational, just try to answer. " +
	"Plain text only, no markdown."
