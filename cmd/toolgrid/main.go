package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/apiclient"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/assistant"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/config"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/grid"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/store"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tui"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a toolgrid YAML config")
		envFile     = flag.String("env", ".env", "dotenv file with variables referenced by the config")
		catalogPath = flag.String("catalog", "", "local YAML/JSON tool catalog")
		apiURL      = flag.String("api", "", "tool API base URL")
		assistantID = flag.String("assistant", "", "assistant whose tools are shown")
		query       = flag.String("query", "", "search query (with -print)")
		printOnly   = flag.Bool("print", false, "print the filtered grid and exit")
		logPath     = flag.String("log", "toolgrid.log", "log file for interactive mode")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *catalogPath != "" {
		cfg.CatalogFile = *catalogPath
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *assistantID != "" {
		cfg.AssistantID = *assistantID
	}
	if err := cfg.Resolve(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// The terminal belongs to the UI; interactive logs go to a file.
	logger := log.New(os.Stderr, "toolgrid: ", log.LstdFlags)
	if !*printOnly {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *printOnly {
		err = printGrid(ctx, cfg, *query, os.Stdout, logger.Printf)
	} else {
		err = runInteractive(ctx, cfg, logger.Printf)
	}
	if err != nil {
		log.Fatalf("toolgrid: %v", err)
	}
}

func loadConfig(path, envFile string) (*config.Config, error) {
	cfg := config.NewConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(envFile); err == nil {
		cfg.LoadVariablesFrom = append(cfg.LoadVariablesFrom, config.NewDotEnv(envFile))
	}
	return cfg, nil
}

func newClient(cfg *config.Config, logf func(string, ...interface{})) (*apiclient.Client, error) {
	if cfg.APIBaseURL == "" {
		return nil, nil
	}
	return apiclient.NewClient(cfg.APIBaseURL, cfg.Token, logf)
}

// printGrid filters the catalog once and writes it, followed by the
// assistant's tools when an assistant is configured.
func printGrid(ctx context.Context, cfg *config.Config, query string, w io.Writer, logf func(string, ...interface{})) error {
	client, err := newClient(cfg, logf)
	if err != nil {
		return err
	}
	src, err := loadCatalog(ctx, cfg, client, logf)
	if err != nil {
		return err
	}
	m, err := src.repo.CategoryMap(ctx)
	if err != nil {
		return err
	}

	g := grid.New(m, grid.WithQuiescence(cfg.Quiescence), grid.WithLogger(logf))
	defer g.Close()
	g.SetQuery(query)
	g.Flush()

	r := grid.NewTextRenderer(w)
	g.Render(r)
	if err := r.Err(); err != nil {
		return err
	}

	lister, err := newLister(cfg, client, logf)
	if err != nil || lister == nil || cfg.AssistantID == "" {
		return err
	}
	current := assistant.NewCurrent()
	st := store.New(lister, store.WithReadonlyPolicy(readonlyPolicy(cfg.ReadonlyPolicy)), store.WithLogger(logf))
	defer st.Close()
	st.Start(ctx, current)
	current.Set(assistant.Assistant{ID: cfg.AssistantID})

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := st.Wait(waitCtx); err != nil {
		if ferr := st.Err(); ferr != nil {
			return ferr
		}
		return err
	}
	list := st.Get()
	fmt.Fprintf(w, "Assistant %s (%d tools", cfg.AssistantID, len(list.Items))
	if list.Readonly {
		fmt.Fprint(w, ", read-only")
	}
	fmt.Fprintln(w, ")")
	for _, tl := range list.Items {
		fmt.Fprintf(w, "  • %s\n", tl.Name)
	}
	return nil
}

func runInteractive(ctx context.Context, cfg *config.Config, logf func(string, ...interface{})) error {
	client, err := newClient(cfg, logf)
	if err != nil {
		return err
	}
	src, err := loadCatalog(ctx, cfg, client, logf)
	if err != nil {
		return err
	}
	m, err := src.repo.CategoryMap(ctx)
	if err != nil {
		return err
	}
	logf("Loaded %d categories from %s", len(m), src.name)

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	var toolGrid *grid.ToolGrid
	onDelete := func(id string) {
		updated, err := src.remove(gctx, id)
		if err != nil {
			logf("Failed to delete tool %s: %v", id, err)
			return
		}
		logf("Deleted tool %s", id)
		toolGrid.SetCategories(updated)
	}
	toolGrid = grid.New(m,
		grid.WithQuiescence(cfg.Quiescence),
		grid.WithOnDelete(onDelete),
		grid.WithLogger(logf),
	)
	defer toolGrid.Close()

	lister, err := newLister(cfg, client, logf)
	if err != nil {
		return err
	}
	current := assistant.NewCurrent()
	var st *store.LazyToolStore
	if lister != nil {
		st = store.New(lister,
			store.WithReadonlyPolicy(readonlyPolicy(cfg.ReadonlyPolicy)),
			store.WithLogger(logf),
		)
		defer st.Close()
		st.Start(gctx, current)
	}

	if cfg.WatchURL != "" {
		w := assistant.NewWatcher(cfg.WatchURL, cfg.Token, current, logf)
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				logf("Assistant feed stopped: %v", err)
			}
			return nil
		})
	} else if cfg.AssistantID != "" {
		current.Set(assistant.Assistant{ID: cfg.AssistantID})
	}

	p := tea.NewProgram(tui.NewModel(toolGrid), tea.WithAltScreen(), tea.WithContext(gctx))
	g.Go(func() error {
		var stopBridge func()
		if st != nil {
			stopBridge = tui.Bridge(p, toolGrid, st)
		} else {
			stopBridge = tui.Bridge(p, toolGrid, nil)
		}
		<-gctx.Done()
		stopBridge()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	return g.Wait()
}
