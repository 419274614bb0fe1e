package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/foliage-labs/wisp/config"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// WatchOptions holds the watch subcommand's flags: like render, but
// re-renders to --out every time a tracked file changes, using fsnotify
// to track the template, partial, and data sources.
type WatchOptions struct {
	ConfigPath string
	DataPath   string
	Output     string
}

func NewWatchOptions() *WatchOptions {
	return &WatchOptions{ConfigPath: ".wisp.toml"}
}

func NewWatchCmd(o *WatchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <template>",
		Short: "Re-render a template whenever its sources change",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return o.Run(args[0])
		},
	}
	cmd.Flags().StringVar(&o.ConfigPath, "config", o.ConfigPath, "Path to .wisp.toml")
	cmd.Flags().StringVar(&o.DataPath, "data", "", "YAML/JSON file supplying template data")
	cmd.Flags().StringVar(&o.Output, "out", "", "Write rendered output here instead of stdout")
	return cmd
}

func (o *WatchOptions) Run(name string) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := map[string]bool{cfg.TemplateDir: true, cfg.PartialDir: true}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Printf("wisp: watch %s: %v", dir, err)
		}
	}
	for _, g := range cfg.Watch {
		matches, err := filepath.Glob(g)
		if err != nil {
			log.Printf("wisp: watch %s: %v", g, err)
			continue
		}
		for _, m := range matches {
			if err := watcher.Add(m); err != nil {
				log.Printf("wisp: watch %s: %v", m, err)
			}
		}
	}
	if o.DataPath != "" {
		if err := watcher.Add(o.DataPath); err != nil {
			log.Printf("wisp: watch %s: %v", o.DataPath, err)
		}
	}

	render := func() {
		// Rebuilding the Environment picks up any template/partial edit
		// on disk, since its loader re-reads from scratch every Render.
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			log.Printf("wisp: %v", err)
			return
		}
		env := buildEnvironment(cfg)
		data, err := loadData(o.DataPath)
		if err != nil {
			log.Printf("wisp: %v", err)
			return
		}
		out := os.Stdout
		if o.Output != "" {
			f, err := os.Create(o.Output)
			if err != nil {
				log.Printf("wisp: %v", err)
				return
			}
			defer f.Close()
			if err := env.Render(f, name, data); err != nil {
				log.Printf("wisp: %v", err)
			}
			return
		}
		if err := env.Render(out, name, data); err != nil {
			log.Printf("wisp: %v", err)
		}
	}

	render()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				log.Printf("wisp: %s changed, re-rendering", event.Name)
				render()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("wisp: watch error: %v", err)
		}
	}
}
