package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/aretw0/tictac/internal/config"
	"github.com/aretw0/tictac/pkg/history"
	"github.com/aretw0/tictac/pkg/history/file"
	"github.com/aretw0/tictac/pkg/history/memory"
	"github.com/aretw0/tictac/pkg/history/redis"
)

// OpenHistory builds the configured game ledger. The returned func releases it.
func OpenHistory(ctx context.Context, cfg config.HistoryConfig, logger *slog.Logger) (history.Store, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory, "":
		return memory.NewStore(), nop, nil
	case config.BackendFile:
		return file.New(cfg.Dir), nop, nil
	case config.BackendRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nop, fmt.Errorf("history: redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Debug("History Backend", "backend", cfg.Backend, "addr", cfg.RedisAddr)
		return s, s.Close, nil
	default:
		return nil, nop, fmt.Errorf("history: unknown backend %q", cfg.Backend)
	}
}

// ListHistory prints the recorded games, most recent first.
func ListHistory(ctx context.Context, store history.Store, w io.Writer) error {
	recs, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recorded games found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFINISHED\tMODE\tSTATUS\tRESULT\tMOVES\tDURATION")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.FinishedAt.Format(time.DateTime), r.Mode, r.Status, result(r), len(r.Moves),
			r.Duration().Round(time.Millisecond))
	}
	return tw.Flush()
}

func result(r history.Record) string {
	switch {
	case r.Winner != "":
		return r.Winner + " wins"
	case r.Outcome != "":
		return string(r.Outcome)
	default:
		return "-"
	}
}

// ShowHistory prints one record as indented JSON.
func ShowHistory(ctx context.Context, store history.Store, id string, w io.Writer) error {
	rec, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load game '%s': %w", id, err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// DeleteHistory removes the given records, reporting each one.
func DeleteHistory(ctx context.Context, store history.Store, ids []string, w io.Writer) error {
	var failed int
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed game '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d games could not be removed", failed, len(ids))
	}
	return nil
}
