package commands

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typereflect/config"
	"github.com/teranos/typereflect/logger"
)

// WatchCmd regenerates on schema and configuration changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever a schema or the configuration changes",
	Long: `Generate once, then watch typereflect.toml and every schema document it
lists. Bursts of changes are coalesced; each burst triggers one regeneration.
A failing regeneration is reported and watching continues.

Examples:
  typereflect watch
  typereflect watch --config api/typereflect.toml`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configPath := configFlag(cmd)
	p, err := loadProject(configPath)
	if err != nil {
		return err
	}
	configPath = p.cfg.Path()

	watcher, err := config.NewSchemaWatcher(p.watchedFiles()...)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	regenerate(ctx, p)

	// Callbacks run on timer goroutines; one regeneration at a time.
	var mu sync.Mutex
	watcher.OnChange(func(changed []string) error {
		mu.Lock()
		defer mu.Unlock()

		pterm.Printf("%s %v\n", pterm.Gray("changed:"), changed)
		next, err := loadProject(configPath)
		if err != nil {
			pterm.Printf("%s %v\n", pterm.Red("✗"), err)
			return err
		}
		if err := watcher.Add(next.watchedFiles()...); err != nil {
			return err
		}
		regenerate(ctx, next)
		return nil
	})
	watcher.Start()

	pterm.Printf("%s %s\n", pterm.LightCyan("Watching"), configPath)
	<-ctx.Done()
	logger.Debugw("Watch stopped")
	return nil
}

func regenerate(ctx context.Context, p *project) {
	res, err := p.generate(ctx, "")
	if res != nil {
		printResult(res)
	}
	if err != nil {
		pterm.Printf("%s %v\n", pterm.Red("✗"), err)
	}
}
