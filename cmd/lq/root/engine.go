package root

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"lifequest/internal/config"
	"lifequest/internal/engine"
	"lifequest/internal/storage"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func openEngine(ctx context.Context) (*engine.GameEngine, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	path := cfg.DBPath
	if path == "" {
		path, err = storage.DefaultDBPath()
		if err != nil {
			return nil, nil, nil, err
		}
	}

	store, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = store.Close()
	}

	eng, err := engine.New(ctx, store, cfg.UserKey, newLogger(cfg))
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	// Passive once-per-day login reward.
	if _, err := eng.CheckDailyLogin(ctx); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return eng, cfg, cleanup, nil
}

// resolveQuestID expands a short id prefix to the full quest id. Ambiguous or
// unknown prefixes return the input unchanged and let the engine report the
// miss.
func resolveQuestID(eng *engine.GameEngine, arg string) string {
	snap, err := eng.Snapshot()
	if err != nil {
		return arg
	}
	match := ""
	for _, q := range snap.Quests {
		if q.ID == arg {
			return arg
		}
		if strings.HasPrefix(q.ID, arg) {
			if match != "" {
				return arg
			}
			match = q.ID
		}
	}
	if match != "" {
		return match
	}
	return arg
}

func resolveHabitID(eng *engine.GameEngine, arg string) string {
	snap, err := eng.Snapshot()
	if err != nil {
		return arg
	}
	match := ""
	for _, h := range snap.Habits {
		if h.ID == arg {
			return arg
		}
		if strings.HasPrefix(h.ID, arg) {
			if match != "" {
				return arg
			}
			match = h.ID
		}
	}
	if match != "" {
		return match
	}
	return arg
}
