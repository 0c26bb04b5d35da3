package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"foliotui/internal/config"
	"foliotui/internal/content"
	"foliotui/internal/eventbus"
	"foliotui/internal/ui"
	"foliotui/internal/watch"
)

// layoutCacheSize is how many terminal widths keep their layout around
const layoutCacheSize = 4

// options holds the command line flags
type options struct {
	configPath string
	direction  string
	logFile    string
	noWatch    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "foliotui <file>",
		Short: "Read plain text and HTML books in the terminal",
		Long: `foliotui pages through a plain text or HTML book.

A scrubber along the edge of the screen shows where you are. It appears on its
own after a long scroll, fades after a second of rest, and can be grabbed with
the mouse or with 's' to jump through the book.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReader(cmd.Context(), opts, args[0])
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "reading direction: vertical, horizontal or horizontal-vertical-content")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "foliotui.log", "write logs to this file")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the book when the file changes")

	cmd.AddCommand(newConfigCommand(opts))
	return cmd
}

func runReader(parent context.Context, opts *options, path string) error {
	// Set up logging
	if opts.logFile != "" {
		logFile, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(opts.configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}
	if opts.direction != "" {
		if err := cfg.SetDirection(opts.direction); err != nil {
			return err
		}
	}

	doc, err := content.Load(path)
	if err != nil {
		return err
	}
	log.Printf("Opened %s: %q, %d chapters, %d paragraphs, %s", doc.Path, doc.Title, len(doc.Chapters), doc.Paragraphs(), cfg.Reader.Direction)
	bus.Publish(eventbus.DocumentLoadedEvent{Path: doc.Path, Title: doc.Title, Bytes: doc.Bytes})

	// Create UI model
	model := ui.NewModel(ui.Options{
		Config:   cfg,
		Layouter: content.NewLayouter(doc, layoutCacheSize),
		Bus:      bus,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.SetProgram(p)

	// Errors reported on the bus surface in the status line
	eventChan := make(chan eventbus.DomainEvent, 16)
	unsubscribe := bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	})
	defer unsubscribe()
	go func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-ctx.Done():
				return
			}
		}
	}()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Reader.Watch && !opts.noWatch {
		w, err := watch.New(doc.Path, watch.DefaultDebounce, reloadForwarder{program: p, bus: bus})
		if err != nil {
			log.Printf("Not watching %s: %v", doc.Path, err)
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	if os.Getenv("FOLIOTUI_E2E_TEST") == "1" {
		fmt.Println("__READY__")
	}

	// Run the UI; leaving it stops the watcher
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// reloadForwarder hands watcher results to the UI loop
type reloadForwarder struct {
	program *tea.Program
	bus     eventbus.EventBus
}

func (f reloadForwarder) Reloaded(doc *content.Document) {
	f.program.Send(ui.DocumentReloadedMsg{Document: doc})
}

func (f reloadForwarder) Failed(err error) {
	f.bus.Publish(eventbus.ErrorEvent{Message: fmt.Sprintf("reload failed: %v", err), Err: err})
}
