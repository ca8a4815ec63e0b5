package main

import (
	"flag"
	"fmt"
	"os"

	"AgenRP/internal/chatbot"
	"AgenRP/internal/config"
)

func main() {
	var cfgPath string

	flag.StringVar(&cfgPath, "config", "", "Path to TOML config file (default ~/.agenrp/config.toml)")
	sessionID := flag.String("session-id", "", "Load existing session by ID")
	apiKey := flag.String("api-key", "", "Gemini API key override for this run")
	model := flag.String("model", "", "Model identifier override")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	cfg.SessionID = *sessionID
	cfg.APIKey = *apiKey
	if *model != "" {
		cfg.Model = *model
	}
	if *debug {
		cfg.Debug = true
	}

	// Remaining args are reference documents to load at startup.
	cfg.Documents = append(cfg.Documents, flag.Args()...)

	bot, err := chatbot.NewChatBot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize assistant: %v\n", err)
		os.Exit(1)
	}

	if err := bot.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
