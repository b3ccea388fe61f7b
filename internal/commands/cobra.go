package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// RunFunc executes a generated command.
type RunFunc func(cmd *cobra.Command, args []string) error

// GenerateCobraCommand creates a Cobra command from registry metadata.
// Use, Short, Long, Aliases, Args and flags all come from the registry so the
// CLI only supplies the handler. It returns nil for unknown paths.
func GenerateCobraCommand(path string, run RunFunc) *cobra.Command {
	meta, ok := Registry[path]
	if !ok {
		return nil
	}

	use := meta.Name
	for _, arg := range meta.Args {
		if arg.Required {
			use += fmt.Sprintf(" <%s>", arg.Name)
		} else {
			use += fmt.Sprintf(" [%s]", arg.Name)
		}
	}

	cmd := &cobra.Command{
		Use:     use,
		Short:   meta.Description,
		Long:    BuildLongDesc(meta),
		Aliases: meta.Aliases,
		Args:    argsValidator(meta.Args),
	}

	for _, flag := range meta.Flags {
		switch flag.Type {
		case FlagTypeBool:
			cmd.Flags().BoolP(flag.Name, flag.Short, flag.Default == "true", flag.Description)
		case FlagTypeInt:
			def, _ := strconv.Atoi(flag.Default)
			cmd.Flags().IntP(flag.Name, flag.Short, def, flag.Description)
		default:
			cmd.Flags().StringP(flag.Name, flag.Short, flag.Default, flag.Description)
		}
		if len(flag.Completions) > 0 {
			_ = cmd.RegisterFlagCompletionFunc(flag.Name, staticCompletion(flag.Completions))
		}
	}

	if len(meta.Args) == 0 {
		cmd.ValidArgsFunction = cobra.NoFileCompletions
	}

	if run != nil {
		cmd.RunE = run
	}
	return cmd
}

// BuildLongDesc joins the long description and the examples.
func BuildLongDesc(meta Meta) string {
	long := meta.Description
	if meta.LongDesc != "" {
		long = meta.LongDesc
	}
	if len(meta.Examples) > 0 {
		var sb strings.Builder
		sb.WriteString(long)
		sb.WriteString("\n\nExamples:\n")
		for _, ex := range meta.Examples {
			sb.WriteString("  ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
		long = sb.String()
	}
	return long
}

func argsValidator(args []ArgMeta) cobra.PositionalArgs {
	minArgs := 0
	for _, arg := range args {
		if arg.Required {
			minArgs++
		}
	}
	maxArgs := len(args)
	switch {
	case maxArgs == 0:
		return cobra.NoArgs
	case minArgs == maxArgs:
		return cobra.ExactArgs(minArgs)
	default:
		return cobra.RangeArgs(minArgs, maxArgs)
	}
}

func staticCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// GetCommandMeta returns the metadata for a command path.
func GetCommandMeta(path string) (Meta, bool) {
	meta, ok := Registry[path]
	return meta, ok
}

// AllCommandPaths returns all registered command paths, sorted.
func AllCommandPaths() []string {
	paths := make([]string, 0, len(Registry))
	for path := range Registry {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
