package filtering

// Options selects which shortlist filters run.
type Options struct {
	MinScore       float64  `mapstructure:"min-score" validate:"gte=0,lte=100"`
	RequiredSkills []string `mapstructure:"required-skills"`
	Top            int      `mapstructure:"top" validate:"gte=0"`
}

// Steps builds the filter chain in its fixed order: required skills, minimum score, top.
func Steps(opts Options) []Filter {
	return []Filter{
		NewRequiredSkills(opts.RequiredSkills),
		NewMinScore(opts.MinScore),
		NewTop(opts.Top),
	}
}
