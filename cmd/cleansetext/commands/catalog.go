package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alejandroruanova/cleansetext/internal/core/services/cleanse"
	"github.com/alejandroruanova/cleansetext/internal/pkg/config"
)

type stepInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases" yaml:"aliases"`
	Explain string   `json:"explain,omitempty" yaml:"explain,omitempty"`
	Note    string   `json:"note,omitempty" yaml:"note,omitempty"`
}

type presetInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Steps       []string `json:"steps" yaml:"steps"`
}

func newStepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the available cleaning steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			meta := cleanse.ListAvailableWithMetadata()
			infos := make([]stepInfo, 0, len(meta))
			for _, name := range cleanse.ListAvailable() {
				info := stepInfo{Name: name}
				if aliases, ok := meta[name]["aliases"].([]string); ok {
					info.Aliases = aliases
				}
				if explain, ok := meta[name]["explain"].(string); ok {
					info.Explain = explain
				}
				if note, ok := meta[name]["error"].(string); ok {
					info.Note = "requires configuration: " + note
				}
				infos = append(infos, info)
			}

			out := cmd.OutOrStdout()
			if cfg.OutputFormat != config.FormatText {
				return writeStructured(out, cfg.OutputFormat, infos)
			}

			for _, info := range infos {
				fmt.Fprintln(out, info.Name)
				if len(info.Aliases) > 0 {
					fmt.Fprintf(out, "  aliases: %s\n", strings.Join(info.Aliases, ", "))
				}
				if info.Explain != "" {
					fmt.Fprintf(out, "  %s\n", info.Explain)
				}
				if info.Note != "" {
					fmt.Fprintf(out, "  %s\n", info.Note)
				}
			}
			return nil
		},
	}
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			infos := make([]presetInfo, 0)
			for _, name := range cleanse.ListPresets() {
				preset, err := cleanse.GetPreset(name)
				if err != nil {
					return err
				}
				info := presetInfo{Name: preset.Name, Description: preset.Description}
				for _, spec := range preset.Steps {
					info.Steps = append(info.Steps, spec.Name)
				}
				infos = append(infos, info)
			}

			out := cmd.OutOrStdout()
			if cfg.OutputFormat != config.FormatText {
				return writeStructured(out, cfg.OutputFormat, infos)
			}

			for _, info := range infos {
				fmt.Fprintf(out, "%s: %s\n", info.Name, info.Description)
				for i, step := range info.Steps {
					fmt.Fprintf(out, "  %d. %s\n", i+1, step)
				}
			}
			return nil
		},
	}
}
