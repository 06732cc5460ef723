// Command repl serves the tool runtime over an NDJSON stdio protocol:
// one request per line on stdin, one result per line on stdout, logs on
// stderr.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ChamsBouzaiene/magpie/internal/config"
	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
	"github.com/ChamsBouzaiene/magpie/internal/tools"
)

// request is one NDJSON line on stdin.
type request struct {
	Tool           string         `json:"tool"`
	Args           map[string]any `json:"args"`
	AgentID        string         `json:"agent_id"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

func main() {
	_ = godotenv.Load()

	cwdFlag := flag.String("cwd", "", "Initial working directory for the default session")
	listFlag := flag.Bool("list", false, "Print the visible tool catalog and exit")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(*cwdFlag, *listFlag, logger); err != nil {
		logger.Fatal().Err(err).Msg("repl failed")
	}
}

func run(cwd string, listOnly bool, logger zerolog.Logger) error {
	mgr, err := config.NewManager()
	if err != nil {
		return err
	}
	cfg, err := mgr.Load()
	if err != nil {
		return err
	}

	paths := session.NewPaths()
	if cwd != "" {
		if err := paths.SetCwd("repl", cwd); err != nil {
			return err
		}
	}

	deps := tools.Deps{Config: cfg, Paths: paths}
	registry := tools.NewRegistry(deps, tools.AllTools())
	executor := engine.NewExecutor(registry, engine.LoggerHook{L: logger})

	if listOnly {
		return printCatalog(registry)
	}

	ctx := context.Background()
	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := out.Encode(engine.Fail(fmt.Sprintf("malformed request: %v", err), nil)); encErr != nil {
				return encErr
			}
			continue
		}
		if req.AgentID == "" {
			req.AgentID = "repl"
		}

		result := executor.Execute(ctx, req.Tool, req.Args, engine.Call{
			AgentID:        req.AgentID,
			ConversationID: req.ConversationID,
		})
		if err := out.Encode(result); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printCatalog(registry *engine.Registry) error {
	cats, groups := registry.ByCategory()
	for _, cat := range cats {
		fmt.Printf("%s:\n", cat)
		for _, name := range groups[cat] {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}
