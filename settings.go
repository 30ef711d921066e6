package pagebrief

// Model providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// DefaultConcurrency is the number of tasks processed at the same time
// unless configured otherwise.
const DefaultConcurrency = 3

// MaxConcurrency bounds the configurable worker count.
const MaxConcurrency = 32

// Settings is the persisted user configuration.
type Settings struct {
	ProjectDirectory string `yaml:"project_directory"`
	AutoSave         bool   `yaml:"auto_save"`
	Concurrency      int    `yaml:"concurrency,omitempty"`
	Provider         string `yaml:"provider,omitempty"`
	Model            string `yaml:"model,omitempty"`
	Browser          bool   `yaml:"browser,omitempty"`
}

// DefaultSettings returns settings rooted at dir with auto-save enabled.
func DefaultSettings(dir string) *Settings {
	return &Settings{
		ProjectDirectory: dir,
		AutoSave:         true,
		Concurrency:      DefaultConcurrency,
		Provider:         ProviderGemini,
	}
}

// Normalize fills zero-valued optional fields with defaults.
func (s *Settings) Normalize() {
	if s.Concurrency == 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.Provider == "" {
		s.Provider = ProviderGemini
	}
}

// Validate returns an error if the settings contain invalid fields.
func (s *Settings) Validate() error {
	if s.ProjectDirectory == "" {
		return Errorf(EINVALID, "project directory required")
	}
	if s.Concurrency < 1 || s.Concurrency > MaxConcurrency {
		return Errorf(EINVALID, "concurrency must be between 1 and %d", MaxConcurrency)
	}
	switch s.Provider {
	case ProviderGemini, ProviderAnthropic, ProviderOllama:
	default:
		return Errorf(EINVALID, "unknown provider %q", s.Provider)
	}
	return nil
}

// SettingsService loads and stores settings.
type SettingsService interface {
	// LoadSettings returns the stored settings, or defaults if none exist.
	LoadSettings() (*Settings, error)

	// SaveSettings validates and persists the settings.
	SaveSettings(s *Settings) error
}
