// Package config loads the persisted assistant settings. Settings are read
// once per conversation start, so edits take effect on the next mic tap.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
)

const (
	CaptureBackendMiniaudio = "miniaudio"
	CaptureBackendPortaudio = "portaudio"
)

// Settings is the persisted configuration surface of the assistant.
type Settings struct {
	// LanguageTag selects the engine's recognition locale, e.g. "en-US".
	LanguageTag string `json:"languageTag" jsonschema:"example=en-US"`
	// SilenceTimeoutSeconds controls how long the engine waits during
	// silence before finalizing the current segment. It does not affect the
	// session or conversation windows, which are supervisor constants.
	SilenceTimeoutSeconds int `json:"silenceTimeoutSeconds" jsonschema:"minimum=1"`
	// CaptureBackend picks the microphone backend: miniaudio or portaudio.
	CaptureBackend string `json:"captureBackend,omitempty" jsonschema:"enum=miniaudio,enum=portaudio"`
	// ConnectivityProbeURL is the endpoint probed for the connectivity
	// indicator. Empty selects the recognition backend's public host.
	ConnectivityProbeURL string `json:"connectivityProbeUrl,omitempty"`
}

func Default() Settings {
	return Settings{
		LanguageTag:           "en-US",
		SilenceTimeoutSeconds: 2,
		CaptureBackend:        CaptureBackendMiniaudio,
	}
}

// SilenceTimeout is SilenceTimeoutSeconds as a duration.
func (s Settings) SilenceTimeout() time.Duration {
	return time.Duration(s.SilenceTimeoutSeconds) * time.Second
}

// RecognitionSettings exposes the per-segment recognition inputs. It makes
// Settings usable as the supervisor's settings source.
func (s Settings) RecognitionSettings() (language string, silenceTimeout time.Duration) {
	return s.LanguageTag, s.SilenceTimeout()
}

// Load reads settings from path, overlaying file values onto defaults so a
// sparse file stays valid. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	settings := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	} else if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	fileSettings := Settings{}
	if err := json.Unmarshal(raw, &fileSettings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := copier.CopyWithOption(&settings, &fileSettings, copier.Option{IgnoreEmpty: true}); err != nil {
		return settings, fmt.Errorf("failed to overlay settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}

	return settings, nil
}

func (s Settings) Validate() error {
	if s.LanguageTag == "" {
		return fmt.Errorf("languageTag must not be empty")
	}
	if s.SilenceTimeoutSeconds <= 0 {
		return fmt.Errorf("silenceTimeoutSeconds must be positive, got %d", s.SilenceTimeoutSeconds)
	}
	switch s.CaptureBackend {
	case "", CaptureBackendMiniaudio, CaptureBackendPortaudio:
	default:
		return fmt.Errorf("unknown capture backend %q", s.CaptureBackend)
	}

	return nil
}

// Schema returns the JSON schema of the settings file, for editor tooling and
// the --config-schema flag.
func Schema() ([]byte, error) {
	schema := jsonschema.Reflect(&Settings{})
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings schema: %w", err)
	}

	return raw, nil
}
