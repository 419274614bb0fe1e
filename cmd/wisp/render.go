package main

import (
	"os"

	"github.com/foliage-labs/wisp/config"
	"github.com/spf13/cobra"
)

// RenderOptions holds the render subcommand's flags, mirroring the
// options-struct-plus-flags pattern common to cobra-based CLIs.
type RenderOptions struct {
	ConfigPath string
	DataPath   string
	Output     string
}

func NewRenderOptions() *RenderOptions {
	return &RenderOptions{ConfigPath: ".wisp.toml"}
}

func NewRenderCmd(o *RenderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a single named template to stdout (or --out)",
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

func (o *RenderOptions) Run(name string) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	env := buildEnvironment(cfg)
	data, err := loadData(o.DataPath)
	if err != nil {
		return err
	}

	out := os.Stdout
	if o.Output != "" {
		f, err := os.Create(o.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		return env.Render(f, name, data)
	}
	return env.Render(out, name, data)
}
