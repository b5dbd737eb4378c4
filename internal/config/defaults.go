package config

const (
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultHistoryPath       = "~/.local/state/tidy/history.db"
	defaultWatchSettleMillis = 500
)

// Default returns a Config populated with repository defaults. The rule set
// covers the common desktop file types; unmatched files land in Others.
func Default() Config {
	return Config{
		Rules: []Rule{
			{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico", ".tiff"}},
			{Name: "Documents", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".xlsx", ".xls", ".ppt", ".pptx", ".odt"}},
			{Name: "Videos", Extensions: []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"}},
			{Name: "Audio", Extensions: []string{".mp3", ".wav", ".aac", ".flac", ".wma", ".ogg", ".m4a", ".opus"}},
			{Name: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".iso"}},
			{Name: "Code", Extensions: []string{
				".py", ".js", ".ts", ".java", ".cpp", ".c", ".h", ".cs", ".rb", ".php", ".go", ".rs",
				".html", ".css", ".json", ".xml", ".yaml", ".yml", ".sh", ".bat", ".ps1",
			}},
			{Name: "Executables", Extensions: []string{".exe", ".msi", ".app", ".bin", ".com", ".run", ".deb", ".rpm"}},
			{Name: "Data", Extensions: []string{".csv", ".sql", ".db", ".sqlite", ".json", ".xml", ".yaml"}},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Watch: Watch{
			SettleMillis: defaultWatchSettleMillis,
		},
	}
}
