package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/springembed/pkg/layout/spring"
	"github.com/matzehuels/springembed/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for springembed.

Besides commands and flags, the scripts complete solver values such as
--cooling (factor, logarithmic), --kernel (auto, scalar, unrolled) and
--format (json, dot, svg, comma-separated).

Load for the current session:

  $ source <(springembed completion bash)
  $ source <(springembed completion zsh)
  $ springembed completion fish | source
  PS> springembed completion powershell | Out-String | Invoke-Expression

Install permanently by writing the script where your shell looks for
completions, e.g. springembed completion bash > /etc/bash_completion.d/springembed.`,
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

	return cmd
}

// registerLayoutCompletions completes the enum-valued solver flags added by
// addLayoutFlags.
func registerLayoutCompletions(cmd *cobra.Command) {
	cooling := make([]string, 0, len(spring.CoolingFunctions()))
	for _, f := range spring.CoolingFunctions() {
		cooling = append(cooling, string(f))
	}
	kernels := make([]string, 0, len(spring.KernelKinds()))
	for _, k := range spring.KernelKinds() {
		kernels = append(kernels, string(k))
	}

	_ = cmd.RegisterFlagCompletionFunc("cooling", cobra.FixedCompletions(cooling, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("kernel", cobra.FixedCompletions(kernels, cobra.ShellCompDirectiveNoFileComp))
}

// registerFormatCompletion completes --format as a comma-separated list,
// offering only formats not already typed.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeFormats(toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	})
}

func completeFormats(toComplete string) []string {
	prefix, current := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, current = toComplete[:i+1], toComplete[i+1:]
	}
	typed := make(map[string]bool)
	for _, f := range strings.Split(prefix, ",") {
		typed[strings.TrimSpace(f)] = true
	}

	var out []string
	for _, f := range []string{pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG} {
		if !typed[f] && strings.HasPrefix(f, current) {
			out = append(out, prefix+f)
		}
	}
	return out
}
