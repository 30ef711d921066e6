package pagebrief_test

import (
	"testing"

	"github.com/fwojciec/pagebrief"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := pagebrief.DefaultSettings("/work")

	assert.Equal(t, "/work", s.ProjectDirectory)
	assert.True(t, s.AutoSave)
	assert.Equal(t, pagebrief.DefaultConcurrency, s.Concurrency)
	assert.Equal(t, pagebrief.ProviderGemini, s.Provider)
	require.NoError(t, s.Validate())
}

func TestSettings_Normalize(t *testing.T) {
	t.Parallel()

	s := &pagebrief.Settings{ProjectDirectory: "/work"}
	s.Normalize()

	assert.Equal(t, pagebrief.DefaultConcurrency, s.Concurrency)
	assert.Equal(t, pagebrief.ProviderGemini, s.Provider)
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings pagebrief.Settings
		message  string
	}{
		{
			name:     "missing project directory",
			settings: pagebrief.Settings{Concurrency: 1, Provider: pagebrief.ProviderGemini},
			message:  "project directory required",
		},
		{
			name:     "concurrency too low",
			settings: pagebrief.Settings{ProjectDirectory: "/w", Concurrency: 0, Provider: pagebrief.ProviderGemini},
			message:  "concurrency must be between 1 and 32",
		},
		{
			name:     "concurrency too high",
			settings: pagebrief.Settings{ProjectDirectory: "/w", Concurrency: 33, Provider: pagebrief.ProviderOllama},
			message:  "concurrency must be between 1 and 32",
		},
		{
			name:     "unknown provider",
			settings: pagebrief.Settings{ProjectDirectory: "/w", Concurrency: 2, Provider: "openai"},
			message:  "unknown provider \"openai\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.settings.Validate()

			require.Error(t, err)
			assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
			assert.Equal(t, tt.message, pagebrief.ErrorMessage(err))
		})
	}
}
