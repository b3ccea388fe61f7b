package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/commands"
	"github.com/aidanlsb/notion-cli/internal/config"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/prompt"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

type secretReader interface {
	Secret(message string) (string, error)
}

// newSecretReader is replaced by tests.
var newSecretReader = func() secretReader { return prompt.NewStdio() }

type loginOptions struct {
	Token    string
	NoVerify bool
}

var authCmd = commands.GenerateCobraCommand("auth", nil)

var authLoginCmd = commands.GenerateCobraCommand("auth login", func(cmd *cobra.Command, args []string) error {
	var opts loginOptions
	opts.Token, _ = cmd.Flags().GetString("token")
	opts.NoVerify, _ = cmd.Flags().GetBool("no-verify")
	return runLogin(cmd.Context(), opts, streamsOf(cmd))
})

var authStatusCmd = commands.GenerateCobraCommand("auth status", func(cmd *cobra.Command, args []string) error {
	return runStatus(cfg, streamsOf(cmd))
})

func runLogin(ctx context.Context, opts loginOptions, s streams) error {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		if !isInteractive() {
			return errorf(ErrNotInteractive, "Pass --token or set NOTION_TOKEN", "no token given and stdin is not a terminal")
		}
		var err error
		token, err = newSecretReader().Secret("Integration token")
		if err != nil {
			return err
		}
	}
	if token == "" {
		return errorf(ErrMissingArgument, "Create one at https://www.notion.so/my-integrations", "token is empty")
	}

	next := *cfg
	next.Token = token

	if !opts.NoVerify {
		api, err := newAPIClient(&next, logger)
		if err != nil {
			return err
		}
		stop := s.spin("Verifying token...")
		_, err = api.Search(ctx, &notion.SearchRequest{PageSize: 1})
		stop()
		if err != nil {
			return apiError(err)
		}
	}

	if err := config.Save(&next); err != nil {
		return newError(ErrConfigInvalid, err, "")
	}
	path := next.Path
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Fprintln(s.err, ui.Success("Token saved to "+path))

	if src := cfg.TokenSource; src != "" && src != config.SourceFile {
		fmt.Fprintln(s.err, ui.Warning(src+" is set and overrides the saved token"))
	}
	return nil
}

func runStatus(c *config.Config, s streams) error {
	path := c.Path
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Fprintf(s.out, "config: %s\n", path)
	if c.Token == "" {
		return errorf(ErrConfigInvalid, "Run 'notion-cli auth login' or set NOTION_TOKEN", "no token configured")
	}
	fmt.Fprintf(s.out, "token: %s\n", c.MaskedToken())
	fmt.Fprintf(s.out, "source: %s\n", c.TokenSource)
	return nil
}

func init() {
	authCmd.AddCommand(authLoginCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
