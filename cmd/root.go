/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blacktop/inpost/internal/config"
	"github.com/blacktop/inpost/internal/inpost"
	"github.com/blacktop/inpost/internal/inpost/linkedin"
	"github.com/blacktop/inpost/internal/logutil"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	tokenFlag   string
	verboseFlag bool
	dryRun      bool
)

// newPublisher builds the remote client from configuration.
var newPublisher = func(cfg *config.Config) (inpost.Publisher, error) {
	client, err := linkedin.New(linkedin.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inpost",
		Short: "Publish to and manage posts on LinkedIn",
		Long: "inpost creates, deletes, comments on and reposts LinkedIn shares and reads their engagement. " +
			"The access token comes from --token, INPOST_LINKEDIN_ACCESS_TOKEN, a .env file, or an interactive prompt.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verboseFlag {
				logutil.SetVerbose(true)
			}
		},
		Example: `  inpost post "Shipped v2 today"
  inpost post --message "New office" --image ./office.jpg
  inpost comments urn:li:share:123 --json
  echo "Great thread" | inpost comment urn:li:share:123`,
	}

	cmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "LinkedIn access token (overrides INPOST_LINKEDIN_ACCESS_TOKEN)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "V", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print actions without sending them")

	cmd.AddCommand(
		newPostCommand(),
		newDeleteCommand(),
		newCommentCommand(),
		newCommentsCommand(),
		newEngagementCommand(),
		newRepostCommand(),
		newShowCommand(),
		newCompletionCommand(),
	)

	return cmd
}

// session is what every subcommand needs to talk to the API.
type session struct {
	publisher inpost.Publisher
	cred      inpost.Credential
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !verboseFlag {
		if !logutil.SetLevel(cfg.LogLevel) {
			logutil.Warnf("unknown log level %q, keeping info", cfg.LogLevel)
		}
		if cfg.Debug {
			logutil.SetVerbose(true)
		}
	}

	cred, err := resolveCredential(cmd, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	logutil.Debugf("session ready: provider=%s api=%s", publisher.Name(), cfg.APIURL)

	return &session{publisher: publisher, cred: cred}, nil
}

// resolveCredential prefers --token, then configuration, and finally prompts
// on an interactive terminal.
func resolveCredential(cmd *cobra.Command, cfg *config.Config) (inpost.Credential, error) {
	if tok := strings.TrimSpace(tokenFlag); tok != "" {
		return inpost.Credential(tok), nil
	}

	cred, missingErr := cfg.RequireToken()
	if missingErr == nil {
		return cred, nil
	}

	file, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return "", missingErr
	}

	fmt.Fprint(cmd.ErrOrStderr(), "LinkedIn access token: ")
	raw, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	tok := strings.TrimSpace(string(raw))
	if tok == "" {
		return "", missingErr
	}
	return inpost.Credential(tok), nil
}

// resolveText takes text from a flag or the arguments, never both, and falls
// back to piped stdin.
func resolveText(cmd *cobra.Command, flagValue string, args []string, what string) (string, error) {
	text := flagValue

	if len(args) > 0 {
		if text != "" {
			return "", fmt.Errorf("provide the %s either as an argument or with --message, not both", what)
		}
		text = strings.Join(args, " ")
	}

	if strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}

	stdin := cmd.InOrStdin()
	piped := true
	if file, ok := stdin.(*os.File); ok {
		piped = !term.IsTerminal(int(file.Fd()))
	}
	if piped {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	if text == "" {
		return "", errors.New(what + " is required")
	}
	return text, nil
}

func postIDArg(args []string) (inpost.PostID, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("post id is required")
	}
	return inpost.PostID(strings.TrimSpace(args[0])), nil
}
