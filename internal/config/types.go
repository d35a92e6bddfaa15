package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Backend       BackendConfig
	Slack         SlackConfig
	Auth          AuthConfig
	Turso         TursoConfig
	ProjectID     string
}
type BackendConfig struct {
	URL    string
	APIKey string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type AuthConfig struct {
	JWTSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
