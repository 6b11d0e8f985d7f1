package ports

// ModerationConfig is the seedable part of the moderation setup: tags, rules
// and tagging sensitivities. Rules and sensitivities reference tags by key.
type ModerationConfig struct {
	Tags          []TagConfig         `toml:"tags" yaml:"tags"`
	Rules         []RuleConfig        `toml:"rules" yaml:"rules"`
	Sensitivities []SensitivityConfig `toml:"sensitivities" yaml:"sensitivities"`
}

type TagConfig struct {
	Key            string `toml:"key" yaml:"key"`
	Label          string `toml:"label" yaml:"label"`
	IsSummaryScore bool   `toml:"summary_score" yaml:"summary_score"`
}

type RuleConfig struct {
	Tag        string  `toml:"tag" yaml:"tag"`
	CategoryID *uint64 `toml:"category_id" yaml:"category_id"`
	Lower      float64 `toml:"lower" yaml:"lower"`
	Upper      float64 `toml:"upper" yaml:"upper"`
	Action     string  `toml:"action" yaml:"action"`
}

// SensitivityConfig with an empty Tag applies to every tag.
type SensitivityConfig struct {
	Tag        string  `toml:"tag" yaml:"tag"`
	CategoryID *uint64 `toml:"category_id" yaml:"category_id"`
	Lower      float64 `toml:"lower" yaml:"lower"`
	Upper      float64 `toml:"upper" yaml:"upper"`
}
