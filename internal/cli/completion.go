package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/pkg/pipeline"
)

// inputExtensions are the segment file suffixes offered for <input>. The text
// format accepts any name, but .txt is what the samples use.
var inputExtensions = []string{"txt", "json", "toml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for trapmap.

Input arguments complete to .txt, .json and .toml files, --format to the
artifact formats. For example:

  $ source <(trapmap completion bash)
  $ trapmap completion fish > ~/.config/fish/completions/trapmap.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerCompletions attaches input file and --format completion to every
// subcommand that reads a segment file.
func (c *CLI) registerCompletions(root *cobra.Command) {
	formats := map[string][]string{
		"build":  pipeline.Formats,
		"render": {pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPNG},
	}
	for _, cmd := range root.Commands() {
		if !strings.Contains(cmd.Use, "<input>") {
			continue
		}
		cmd.ValidArgsFunction = completeInput
		if fs, ok := formats[cmd.Name()]; ok {
			if err := cmd.RegisterFlagCompletionFunc("format", completeFormats(fs)); err != nil {
				c.Logger.Warn("format completion unavailable", "command", cmd.Name(), "err", err)
			}
		}
	}
}

// completeInput offers segment files for the first positional argument and
// nothing after it, since the remaining arguments are coordinates.
func completeInput(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return inputExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last element of a comma-separated format
// list, skipping formats already named.
func completeFormats(formats []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var prefix, partial string
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix, partial = toComplete[:i+1], toComplete[i+1:]
		} else {
			partial = toComplete
		}
		given := parseFormats(strings.TrimSuffix(prefix, ","))

		var out []string
		for _, f := range formats {
			if strings.HasPrefix(f, partial) && !slices.Contains(given, f) {
				out = append(out, prefix+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
