// Command see is the entrypoint binary: it wires configuration, the
// structured logger, the durable store, the execution engine, and the
// input-gate service, audits orphaned executions left Running by a prior
// process, then hands off to the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/seeflow/see/cli"
	"github.com/seeflow/see/engine/exec"
	"github.com/seeflow/see/engine/gate"
	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/pkg/config"
	"github.com/seeflow/see/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Output:     os.Stdout,
		JSON:       false,
		TimeFormat: "15:04:05",
	})
	// A fresh correlation ID per CLI invocation ties every log line this
	// process emits together, distinct from the durable ksuid-based
	// execution and input-request IDs persisted in the store.
	correlationID := uuid.NewString()
	log = log.With("correlation_id", correlationID)
	ctx := logger.ContextWithLogger(context.Background(), log)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	st.SetRetryPolicy(cfg.RetryMaxAttempts, cfg.RetryBaseDelay)

	engine := exec.New(st)
	if orphaned, err := engine.AuditOrphans(ctx); err != nil {
		return fmt.Errorf("audit orphaned executions: %w", err)
	} else if orphaned > 0 {
		log.With("count", orphaned).Warn("marked orphaned executions as failed on startup")
	}

	deps := &cli.Deps{
		Store:          st,
		Engine:         engine,
		Gate:           gate.New(st, engine),
		CommandTimeout: cfg.CommandTimeout,
	}

	root := cli.RootCmd(deps)
	root.SetContext(ctx)
	return root.Execute()
}
