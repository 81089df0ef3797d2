package config

// SessionConfig configures the interactive session buffers.
type SessionConfig struct {
	// Capacity of the history ledger (executed commands with outcomes)
	HistorySize int `yaml:"history_size" json:"history_size,omitempty"`

	// Capacity of the up/down recall ring of submitted lines
	RecallSize int `yaml:"recall_size" json:"recall_size,omitempty"`

	// Output lines kept before the oldest are evicted
	MaxOutputLines int `yaml:"max_output_lines" json:"max_output_lines,omitempty"`

	// Appended to the working directory when echoing a submitted line
	PromptSuffix string `yaml:"prompt_suffix" json:"prompt_suffix,omitempty"`
}
