package config

const (
	defaultConfigPath          = "~/.config/curator/config.toml"
	defaultStateDir            = "~/.local/share/curator"
	defaultLogDir              = "~/.local/share/curator/logs"
	defaultOutputDir           = "~/.local/share/curator/manifests"
	defaultLookupFile          = "~/.config/curator/lookup.md"
	defaultWhitelistFile       = "~/.config/curator/whitelist.md"
	defaultCanonFile           = "~/.config/curator/canon.md"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "en-US"
	defaultOMDbBaseURL         = "https://www.omdbapi.com/"
	defaultTimeoutSeconds      = 10
	defaultTitleSimilarity     = 0.6
	defaultMaxYearDelta        = 2
	defaultMaxCandidates       = 3
	defaultPopularityThreshold = 10.0
	defaultVoteThreshold       = 1000
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// DefaultFormatSignals are edition and format markers commonly found in
// release file names.
var DefaultFormatSignals = []string{
	"director's cut",
	"directors cut",
	"extended edition",
	"extended cut",
	"theatrical cut",
	"final cut",
	"special edition",
	"collector's edition",
	"criterion collection",
	"criterion",
	"remastered",
	"4k restoration",
	"restored",
	"restoration",
	"unrated",
	"uncut",
	"imax",
	"35mm",
	"open matte",
	"2160p",
	"1080p",
	"720p",
	"480p",
	"bluray",
	"blu-ray",
	"bdrip",
	"webrip",
	"web-dl",
	"dvdrip",
	"remux",
	"hdr",
	"x264",
	"x265",
	"hevc",
}

func defaultMainstream() Mainstream {
	return Mainstream{
		Countries: []string{"US", "GB", "CA", "AU"},
		Genres: []string{
			"action", "adventure", "comedy", "family", "animation",
			"science fiction", "fantasy", "thriller", "romance", "crime",
		},
		StrongSignals: []string{"imax", "4k restoration", "criterion", "remastered", "theatrical cut"},
		ExploitationKeywords: []string{
			"cannibal", "nazisploitation", "women in prison", "mondo",
			"sexploitation", "nunsploitation", "bloodsucking", "chainsaw",
		},
		PopularityThreshold: defaultPopularityThreshold,
		VoteThreshold:       defaultVoteThreshold,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:      defaultStateDir,
			LogDir:        defaultLogDir,
			OutputDir:     defaultOutputDir,
			LookupFile:    defaultLookupFile,
			WhitelistFile: defaultWhitelistFile,
			CanonFile:     defaultCanonFile,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		OMDb: OMDb{
			BaseURL:        defaultOMDbBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Matching: Matching{
			TitleSimilarity: defaultTitleSimilarity,
			MaxYearDelta:    defaultMaxYearDelta,
			MaxCandidates:   defaultMaxCandidates,
		},
		Normalization: Normalization{
			FormatSignals: append([]string(nil), DefaultFormatSignals...),
		},
		Mainstream: defaultMainstream(),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
