package config

const (
	defaultConfigPath            = "~/.config/posawiki/config.toml"
	defaultDataDir               = "~/.local/share/posawiki"
	defaultLogDir                = "~/.local/share/posawiki/logs"
	defaultSearchIndexDirName    = "search"
	databaseFileName             = "posawiki.db"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultMinTripScore          = 2
	defaultBaseTitleShrinkRatio  = 0.6
	defaultMaxSpanDays           = 365
	defaultMediumConfidenceScore = 2.0
	defaultMinGroupSize          = 2
	defaultPrefixLength          = 4
	defaultAuthorityThreshold    = 15
	defaultCandidateThreshold    = 5
	defaultVariantMinUses        = 5
	defaultExampleVideos         = 3

	authorityPathEnv = "POSAWIKI_AUTHORITY_FILE"
)

// DefaultTripKeywords lists the words that suggest a title belongs to a
// multi-day outing.
func DefaultTripKeywords() []string {
	return []string{
		"night", "day", "wilderness", "adventure", "canoe", "camping",
		"expedition", "journey", "backpack", "hike", "paddle",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Detection: Detection{
			TripKeywords:          DefaultTripKeywords(),
			MinTripScore:          defaultMinTripScore,
			BaseTitleShrinkRatio:  defaultBaseTitleShrinkRatio,
			MaxSpanDays:           defaultMaxSpanDays,
			MediumConfidenceScore: defaultMediumConfidenceScore,
		},
		Import: Import{
			MinGroupSize: defaultMinGroupSize,
		},
		Stats: Stats{
			PrefixLength:       defaultPrefixLength,
			AuthorityThreshold: defaultAuthorityThreshold,
			CandidateThreshold: defaultCandidateThreshold,
			VariantMinUses:     defaultVariantMinUses,
			ExampleVideos:      defaultExampleVideos,
		},
		Search: Search{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
