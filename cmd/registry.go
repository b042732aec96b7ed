package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"backoffice.GO/core/registry"
)

// Register adds a command to the CLI. Commands named "area:action" are
// listed under the "area" group in help output. Call from init(); panics
// once Apply has run.
func Register(c *cobra.Command) {
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryCmd, c)
}

// Apply attaches registered commands to the root command and locks the
// registry.
func Apply() {
	groups := map[string]bool{}
	for _, g := range rootCmd.Groups() {
		groups[g.ID] = true
	}
	for _, c := range registry.List[*cobra.Command](registry.GlobalRegistry, registry.KeyRegistryCmd) {
		if area, _, ok := strings.Cut(c.Name(), ":"); ok && c.GroupID == "" {
			if !groups[area] {
				rootCmd.AddGroup(&cobra.Group{ID: area, Title: strings.ToUpper(area[:1]) + area[1:] + ":"})
				groups[area] = true
			}
			c.GroupID = area
		}
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
