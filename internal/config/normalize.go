package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNotion()
	c.normalizeTMDB()
	if err := c.normalizeCalendar(); err != nil {
		return err
	}
	if err := c.normalizeNAS(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotion() {
	c.Notion.Token = envFallback(c.Notion.Token, "NOTION_TOKEN")
	c.Notion.DatabaseID = envFallback(c.Notion.DatabaseID, "DATABASE_ID")
	c.Notion.BaseURL = strings.TrimRight(strings.TrimSpace(c.Notion.BaseURL), "/")
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = defaultNotionBaseURL
	}
	if strings.TrimSpace(c.Notion.Version) == "" {
		c.Notion.Version = defaultNotionVersion
	}
	if c.Notion.RequestsPerSecond == 0 {
		c.Notion.RequestsPerSecond = defaultNotionRPS
	}
	defaults := defaultProperties()
	props := &c.Notion.Properties
	fillBlank(&props.Title, defaults.Title)
	fillBlank(&props.Enriched, defaults.Enriched)
	fillBlank(&props.ReleaseDate, defaults.ReleaseDate)
	fillBlank(&props.Categories, defaults.Categories)
	fillBlank(&props.Tags, defaults.Tags)
	fillBlank(&props.Synopsis, defaults.Synopsis)
	fillBlank(&props.Director, defaults.Director)
	fillBlank(&props.Status, defaults.Status)
	fillBlank(&props.Support, defaults.Support)
	fillBlank(&props.Type, defaults.Type)
	fillBlank(&props.NASPath, defaults.NASPath)
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = envFallback(c.TMDB.APIKey, "TMDB_API_KEY")
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	fillBlank(&c.TMDB.Language, defaultTMDBLanguage)
	if c.TMDB.RequestsPerSecond == 0 {
		c.TMDB.RequestsPerSecond = defaultTMDBRPS
	}
	if c.TMDB.SearchCacheSize == 0 {
		c.TMDB.SearchCacheSize = defaultTMDBSearchCache
	}
	if c.TMDB.RequestTimeout == 0 {
		c.TMDB.RequestTimeout = defaultTMDBRequestTimeout
	}
}

func (c *Config) normalizeCalendar() error {
	c.Calendar.CredentialsFile = envFallback(c.Calendar.CredentialsFile, "GOOGLE_CALENDAR_CREDENTIALS")
	c.Calendar.CalendarID = envFallback(c.Calendar.CalendarID, "GOOGLE_CALENDAR_ID")
	if c.Calendar.SummaryPrefix == "" {
		c.Calendar.SummaryPrefix = defaultCalendarPrefix
	}
	var err error
	if c.Calendar.CredentialsFile, err = expandPath(c.Calendar.CredentialsFile); err != nil {
		return fmt.Errorf("calendar.credentials_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeNAS() error {
	var err error
	if c.NAS.Root, err = expandPath(strings.TrimSpace(c.NAS.Root)); err != nil {
		return fmt.Errorf("nas.root: %w", err)
	}
	c.NAS.LinuxRoot = strings.TrimRight(strings.TrimSpace(c.NAS.LinuxRoot), "/")
	c.NAS.SMBHost = strings.TrimSpace(c.NAS.SMBHost)
	c.NAS.SMBSharePrefix = strings.Trim(strings.TrimSpace(c.NAS.SMBSharePrefix), "/")
	if c.NAS.SMBSharePrefix == "" {
		c.NAS.SMBSharePrefix = defaultSMBSharePrefix
	}
	if len(c.NAS.Extensions) == 0 {
		c.NAS.Extensions = append([]string(nil), defaultVideoExtensions...)
	}
	for i, ext := range c.NAS.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.NAS.Extensions[i] = ext
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(envFallback(c.Notifications.NtfyTopic, "NTFY_TOPIC"))
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = 10
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "warning":
		c.Logging.Level = "warn"
	}
}

func envFallback(value, key string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	if env, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(env)
	}
	return ""
}

func fillBlank(target *string, fallback string) {
	if strings.TrimSpace(*target) == "" {
		*target = fallback
	}
}
