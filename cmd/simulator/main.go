// Command simulator drives a voice session against a running server without
// a browser. It pretends to be the client speech surface: it obeys capture
// and speak directives and feeds back transcripts, either from a script or
// typed interactively.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "ws://localhost:8000/ws/session", "Voice session WebSocket URL")
	token       = flag.String("token", "", "Session JWT (from signin)")
	say         = flag.String("say", "", "Comma-separated transcripts to feed, in order")
	speechDelay = flag.Duration("speech-delay", 300*time.Millisecond, "Simulated speech playback duration")
	interactive = flag.Bool("interactive", false, "Type transcripts on stdin instead of a script")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "A session token is required; sign in first and pass -token")
		os.Exit(1)
	}

	var script []string
	if *say != "" {
		for _, part := range strings.Split(*say, ",") {
			if part = strings.TrimSpace(part); part != "" {
				script = append(script, part)
			}
		}
	}
	if !*interactive && len(script) == 0 {
		script = []string{"what time is it", "goodbye"}
	}

	sim := NewSimulator(&SimulatorConfig{
		ServerURL:   *serverURL,
		Token:       *token,
		Script:      script,
		SpeechDelay: *speechDelay,
		Interactive: *interactive,
	}, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		sim.Stop()
		os.Exit(0)
	}()

	if err := sim.Connect(); err != nil {
		logger.Fatal("failed to connect", zap.Error(err))
	}

	if *interactive {
		sim.RunInteractive()
	} else {
		sim.RunScript()
	}
	sim.Stop()
}
