// Package main provides a tool to seed the daily challenge prompt pool.
//
// Prompts are read one per line from a text file, or a small built-in set
// is used when no file is given. Prompts already in the pool are kept,
// the tool only appends.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/seed
//	DATA_PATH=~/Inkwell/data go run ./cmd/seed --file prompts.txt
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

var promptFile = flag.String("file", "", "Text file with one prompt per line")

// defaultPrompts keeps a fresh install usable for a couple of weeks.
var defaultPrompts = []string{
	"Write about a sound you heard today and where it took you.",
	"Describe the last meal that genuinely surprised you.",
	"What would you tell yourself from exactly one year ago?",
	"Write about a door you have never opened.",
	"Describe a stranger you remember for no clear reason.",
	"What does rain change about your city?",
	"Write about something you almost said out loud.",
	"Describe your morning as if it happened to someone else.",
	"What is the oldest object you use every day?",
	"Write about a place that no longer exists.",
	"Describe a habit you picked up without noticing.",
	"What would your room say about you to a visitor?",
	"Write about the longest you have ever waited for something.",
	"Describe a smell that belongs to a season.",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Inkwell", "data")
	}

	dbPath := filepath.Join(dataPath, "db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	quiet := logger.New(logger.Config{Level: slog.LevelWarn})
	s, err := store.New(dbPath, time.Local, quiet)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	prompts := defaultPrompts
	if *promptFile != "" {
		prompts, err = readPrompts(*promptFile)
		if err != nil {
			log.Fatalf("Failed to read prompt file: %v", err)
		}
	}

	ctx := context.Background()
	created := 0

	for _, content := range prompts {
		promptID, err := id.Generate("prompt")
		if err != nil {
			log.Fatalf("Failed to generate prompt ID: %v", err)
		}

		p := &domain.Prompt{
			ID:        promptID,
			Content:   content,
			CreatedAt: time.Now(),
		}

		if err := s.Prompts.Create(ctx, promptID, p); err != nil {
			log.Printf("Failed to create prompt %q: %v", content, err)
			continue
		}
		created++
	}

	remaining, err := s.UnusedPromptCount(ctx)
	if err != nil {
		log.Fatalf("Failed to count prompts: %v", err)
	}

	fmt.Printf("Created %d prompts, pool now holds %d unused\n", created, remaining)
}

// readPrompts loads prompts from a text file, one per line. Blank lines and
// lines starting with # are skipped.
func readPrompts(path string) ([]string, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from the operator's flag
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompts found in %s", path)
	}
	return prompts, nil
}
