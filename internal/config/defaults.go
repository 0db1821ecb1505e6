package config

const (
	defaultConfigPath         = "~/.config/reelsync/config.toml"
	defaultStateDir           = "~/.local/share/reelsync"
	defaultLogDir             = "~/.local/share/reelsync/logs"
	defaultNotionBaseURL      = "https://api.notion.com/v1"
	defaultNotionVersion      = "2022-06-28"
	defaultNotionWriteSettle  = 250
	defaultNotionRPS          = 3
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "fr-FR"
	defaultTMDBRPS            = 4
	defaultTMDBSearchCache    = 256
	defaultTMDBRequestTimeout = 10
	defaultCalendarPrefix     = "🎬 Release tomorrow: "
	defaultSMBSharePrefix     = "Multimedia/Movies"
	defaultServerBind         = "0.0.0.0:8000"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

var defaultVideoExtensions = []string{".mkv", ".mp4", ".avi", ".mov"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Notion: Notion{
			BaseURL:           defaultNotionBaseURL,
			Version:           defaultNotionVersion,
			WriteSettleMS:     defaultNotionWriteSettle,
			RequestsPerSecond: defaultNotionRPS,
			Properties:        defaultProperties(),
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			Language:          defaultTMDBLanguage,
			RequestsPerSecond: defaultTMDBRPS,
			SearchCacheSize:   defaultTMDBSearchCache,
			RequestTimeout:    defaultTMDBRequestTimeout,
		},
		Matching: Matching{
			DecisiveScore:   0.85,
			DecisiveMargin:  0.20,
			PopularScore:    0.75,
			PopularVotes:    2000,
			TitleSimilarity: 0.85,
		},
		Enrichment: Enrichment{
			DefaultStatus:   "À regarder",
			SupportUpcoming: "Cinéma",
			SupportReleased: "À télécharger",
			TypeLabel:       "Film",
			AttachImages:    true,
			SetCover:        true,
		},
		Calendar: Calendar{
			Enabled:       true,
			SummaryPrefix: defaultCalendarPrefix,
		},
		NAS: NAS{
			SMBSharePrefix: defaultSMBSharePrefix,
			Extensions:     append([]string(nil), defaultVideoExtensions...),
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			PendingReview:  true,
			RunSummary:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultProperties() NotionProperties {
	return NotionProperties{
		Title:       "Nom",
		Enriched:    "TMDB_OK",
		ReleaseDate: "Date de sortie",
		Categories:  "Catégorie",
		Tags:        "Tags",
		Synopsis:    "Synopsis",
		Director:    "Réalisateur",
		Status:      "Statut",
		Support:     "Support",
		Type:        "Type",
		NASPath:     "NAS Path",
	}
}
