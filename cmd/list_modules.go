package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listModulesCmd = &cobra.Command{
	Use:   "list-modules",
	Short: "Display available Aperture modules",
	Run: func(cmd *cobra.Command, args []string) {
		displayModuleTree()
	},
}

// displayModuleTree prints registered modules grouped by their parent
// command, e.g. "aws/provision" followed by its module entries.
func displayModuleTree() {
	sort.Slice(registeredModules, func(i, j int) bool {
		return registeredModules[i].CommandPath < registeredModules[j].CommandPath
	})

	bold := color.New(color.Bold)
	if noColorFlag {
		color.NoColor = true
	}

	lastGroup := ""
	for _, module := range registeredModules {
		group := module.CommandPath
		name := module.CommandPath
		if idx := strings.LastIndex(module.CommandPath, "/"); idx >= 0 {
			group = module.CommandPath[:idx]
			name = module.CommandPath[idx+1:]
		}
		if group != lastGroup {
			fmt.Printf("\n%s\n", bold.Sprint(group))
			lastGroup = group
		}
		fmt.Printf("  ├─ %s - %s\n", name, module.Description)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(listModulesCmd)
}
