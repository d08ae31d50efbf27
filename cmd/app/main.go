// app is the interactive terminal client. It talks to a running dentallab
// server over HTTP and keeps its session in a local file between runs.
package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"dentallab/internal/adapters/term"
	"dentallab/internal/ai"
	"dentallab/internal/client/api"
	"dentallab/internal/client/session"
	"dentallab/internal/client/state"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("LAB_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	sess, err := session.NewFileStore(os.Getenv("LAB_SESSION_FILE"))
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, the assistant will not work")
	}

	store := state.NewStore(api.New(baseURL), sess, ai.NewAssistant(apiKey))
	term.Run(context.Background(), store, bufio.NewReader(os.Stdin))
}
