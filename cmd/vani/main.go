// Command vani is a hands-free speech-to-text assistant. A single mic tap
// opens a conversation; the supervisor keeps recognition segments rolling
// until the user stops it or the conversation goes quiet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gtejasvarma/vani/config"
	supervision "github.com/gtejasvarma/vani/core"
	"github.com/gtejasvarma/vani/core/audio/miniaudio"
	"github.com/gtejasvarma/vani/core/audio/portaudio"
	"github.com/gtejasvarma/vani/core/connectivity"
	"github.com/gtejasvarma/vani/core/recognition/deepgram"
	"github.com/gtejasvarma/vani/core/transcript"
)

const portaudioBufferSize = 1024

type audioCapture interface {
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	Close()
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the settings file")
	printSchema := flag.Bool("config-schema", false, "print the settings file JSON schema and exit")
	flag.Parse()

	if *printSchema {
		schema, err := config.Schema()
		if err != nil {
			log.Fatalf("Failed to build settings schema: %v", err)
		}
		fmt.Println(string(schema))
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	if err := run(settings); err != nil {
		log.Fatal(err)
	}
}

func run(settings config.Settings) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	capture, err := newAudioCapture(settings.CaptureBackend)
	if err != nil {
		return fmt.Errorf("failed to open microphone: %w", err)
	}
	defer capture.Close()

	engine := deepgram.NewTranscriptionClient()
	store := transcript.NewStore()

	var program *tea.Program
	monitor := connectivity.NewMonitor(
		connectivity.WithProbeURL(settings.ConnectivityProbeURL),
		connectivity.WithChangeCallback(func(connected bool) {
			program.Send(connectivityMsg(connected))
		}),
	)

	supervisor := supervision.NewSupervisor(
		supervision.WithRecognitionEngine(engine),
		supervision.WithTranscriptSink(store),
		supervision.WithConnectivitySource(monitor),
		supervision.WithSettingsSource(settings),
	)
	defer supervisor.Close()

	program = tea.NewProgram(newModel(supervisor), tea.WithAltScreen())
	go monitor.Run(ctx)

	supervisor.Supervise(ctx,
		supervision.WithSnapshotCallback(func(snapshot supervision.Snapshot) {
			program.Send(snapshotMsg(snapshot))
		}),
		supervision.WithTranscriptLineCallback(func(line transcript.Line) {
			program.Send(transcriptLineMsg(line))
		}),
		supervision.WithPartialTranscriptCallback(func(partial string) {
			program.Send(partialTranscriptMsg(partial))
		}),
	)

	go func() {
		err := capture.Stream(ctx, func(chunk []byte) {
			if err := engine.SendAudio(chunk); err != nil {
				log.Printf("Failed to forward audio: %v", err)
			}
		})
		if err != nil {
			log.Printf("Audio capture failed: %v", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}

func newAudioCapture(backend string) (audioCapture, error) {
	switch backend {
	case config.CaptureBackendPortaudio:
		return portaudio.NewClient(portaudioBufferSize)
	default:
		return miniaudio.NewClient()
	}
}

func defaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "vani.json"
	}
	return filepath.Join(configDir, "vani", "settings.json")
}
