package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/llmscan/internal/config"
)

// Config command flags.
var configGlobal bool

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify llmscan configuration",
	Long: `View and modify llmscan configuration.

Llmscan reads configuration from ` + config.FileName + ` in the scanned
directory. A global config at ~/.config/llmscan/config.yaml provides
defaults. Local settings override global settings, and command-line flags
override both.

Note: config set does a YAML round-trip and will not preserve comments.
If you need to keep comments, edit the file directly.`,
}

// configGetCmd retrieves a configuration value by key.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by key.

Examples:
  llmscan config get api
  llmscan config get max_retries
  llmscan config get --global model`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are auto-detected as bool, int, float, or string.
By default, writes to ` + config.FileName + ` in the current directory.
Use --global to write to ~/.config/llmscan/config.yaml.

Note: This does a YAML round-trip and will not preserve comments.

Examples:
  llmscan config set api claude
  llmscan config set pattern '*.cpp'
  llmscan config set delay 500ms
  llmscan config set --global model gpt-4o`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List all configuration values with their source annotation.

Shows every set configuration value, annotated with whether it comes
from the local config (` + config.FileName + `) or global config
(~/.config/llmscan/config.yaml). Local values override global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func init() {
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/llmscan/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/llmscan/config.yaml)")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal = false
	if f := configGetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
	}
	if f := configSetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]

	var cfg *config.Config
	var err error

	if configGlobal {
		cfg, err = config.LoadGlobal()
	} else {
		// Load the local config, falling back to the merged view.
		localCfg, localErr := config.Load(".")
		if localErr != nil {
			return fmt.Errorf("loading local config: %w", localErr)
		}
		globalCfg, globalErr := config.LoadGlobal()
		if globalErr != nil {
			return fmt.Errorf("loading global config: %w", globalErr)
		}
		cfg = mergeConfigs(globalCfg, localCfg)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	val, err := config.GetValue(cfg, keyPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	// Determine target file path.
	targetPath := filepath.Join(".", config.FileName)
	if configGlobal {
		targetPath = config.GlobalConfigPath()
	}

	// Load existing file as raw map.
	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	// Set the value.
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip validate: unmarshal to Config and validate.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	// Write back.
	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	localCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading local config: %w", err)
	}

	globalMap, err := configToFlatMap(globalCfg)
	if err != nil {
		return err
	}
	localMap, err := configToFlatMap(localCfg)
	if err != nil {
		return err
	}

	// Merge: local overrides global, track source.
	type entry struct {
		key    string
		value  any
		source string
	}

	seen := make(map[string]entry)
	for k, v := range globalMap {
		seen[k] = entry{key: k, value: v, source: "global"}
	}
	for k, v := range localMap {
		seen[k] = entry{key: k, value: v, source: "local"}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'llmscan config set <key> <value>' to set values.")
		return nil
	}

	// Sort keys for stable output.
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	globalColor := color.New(color.FgCyan)
	localColor := color.New(color.FgGreen)

	for _, k := range keys {
		e := seen[k]
		sourceLabel := formatSource(e.source, globalColor, localColor)
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, sourceLabel)
	}

	return nil
}

// mergeConfigs merges global and local configs. Local values take precedence.
// Only non-zero local values override global values.
func mergeConfigs(global, local *config.Config) *config.Config {
	merged := *global

	if local.API != "" {
		merged.API = local.API
	}
	if local.Model != "" {
		merged.Model = local.Model
	}
	if local.Pattern != "" {
		merged.Pattern = local.Pattern
	}
	if local.OutputDir != "" {
		merged.OutputDir = local.OutputDir
	}
	if local.Delay != "" {
		merged.Delay = local.Delay
	}
	if local.MaxRetries != nil {
		merged.MaxRetries = local.MaxRetries
	}
	if local.TruncateChars != 0 {
		merged.TruncateChars = local.TruncateChars
	}
	if local.Timeout != "" {
		merged.Timeout = local.Timeout
	}

	return &merged
}

// configToFlatMap converts a Config to a flat map, omitting zero values.
func configToFlatMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return config.FlattenMap(m, ""), nil
}

// formatSource returns a colorized source annotation.
func formatSource(source string, globalColor, localColor *color.Color) string {
	switch source {
	case "global":
		return globalColor.Sprintf("(global)")
	case "local":
		return localColor.Sprintf("(local)")
	default:
		return fmt.Sprintf("(%s)", source)
	}
}
