// Command hotline runs the disaster-response hotline console: a terminal
// UI around one live voice call, its rolling transcript, and the lesson
// loop that tunes the operator between calls.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	session "github.com/reliefdesk/hotline-core/core"
	"github.com/reliefdesk/hotline-core/core/audio/miniaudio"
	"github.com/reliefdesk/hotline-core/core/audio/portaudio"
	"github.com/reliefdesk/hotline-core/core/critic"
	"github.com/reliefdesk/hotline-core/core/lessons"
	"github.com/reliefdesk/hotline-core/core/records"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML configuration")
	dialogueURL := flag.String("url", "", "dialogue service websocket URL (overrides config)")
	exportDir := flag.String("export-dir", ".", "directory for exported call transcripts")
	flag.Parse()

	if err := run(*configPath, *dialogueURL, *exportDir); err != nil {
		fmt.Fprintln(os.Stderr, "hotline:", err)
		os.Exit(1)
	}
}

func run(configPath, dialogueURL, exportDir string) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if dialogueURL != "" {
		config.DialogueURL = dialogueURL
	}
	if config.DialogueURL == "" {
		return fmt.Errorf("no dialogue service URL configured; set dialogue_url in %s or pass -url", configPath)
	}

	lessonStore, err := lessons.NewBadgerStore(lessons.BadgerOptions{
		Dir:      filepath.Join(config.DataDir, "lessons"),
		Capacity: config.LessonCapacity,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := lessonStore.Close(); err != nil {
			log.Printf("Failed to close lesson store: %v", err)
		}
	}()

	recordStore, err := records.NewStore(records.Options{
		Dir: filepath.Join(config.DataDir, "records"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := recordStore.Close(); err != nil {
			log.Printf("Failed to close record store: %v", err)
		}
	}()

	options := []session.Option{
		session.WithConfig(session.Config{
			DialogueURL:      config.DialogueURL,
			Voice:            config.Voice,
			BaseInstructions: config.Instructions,
			DebounceWindow:   config.DebounceWindow(),
		}),
		session.WithLessonStore(lessonStore),
		session.WithRecordWriter(recordStore),
	}

	if !config.Critic.Disabled {
		criticOpts := []critic.Option{}
		if config.Critic.Model != "" {
			criticOpts = append(criticOpts, critic.WithModel(config.Critic.Model))
		}
		if key := os.Getenv(config.Critic.APIKeyEnv); key != "" {
			criticOpts = append(criticOpts, critic.WithAPIKey(key))
		}
		if config.Critic.BaseURL != "" {
			criticOpts = append(criticOpts, critic.WithBaseURL(config.Critic.BaseURL))
		}
		options = append(options, session.WithCritic(critic.New(criticOpts...)))
	}

	switch config.AudioBackend {
	case "miniaudio":
		client, err := miniaudio.NewClient()
		if err != nil {
			return fmt.Errorf("audio backend: %w", err)
		}
		defer client.Close()
		options = append(options,
			session.WithAudioInput(client.Input()),
			session.WithAudioOutput(client.Output()),
		)
	case "portaudio":
		client, err := portaudio.NewClient()
		if err != nil {
			return fmt.Errorf("audio backend: %w", err)
		}
		defer client.Close()
		options = append(options,
			session.WithAudioInput(client.Input()),
			session.WithAudioOutput(client.Output()),
		)
	default:
		return fmt.Errorf("unknown audio backend %q (use miniaudio or portaudio)", config.AudioBackend)
	}

	controller := session.NewController(options...)

	model := NewModel(controller, exportDir)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// The TUI owns stdout; route pipeline logs through bubbletea instead.
	log.SetOutput(teaLogWriter{program: program})
	defer log.SetOutput(os.Stderr)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return controller.End()
}
