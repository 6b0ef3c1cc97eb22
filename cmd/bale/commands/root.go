// Package commands implements the CLI commands for the bale bundle builder.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bale/internal/app"
	"go.trai.ch/bale/internal/build"
	"go.trai.ch/bale/internal/core/domain"
)

// Exit codes of the bale binary.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitUnsavedChanges = 2
	ExitCanceled       = 130
)

// CLI represents the command line interface for bale.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) (domain.Code, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// ResultError carries the result code of a build that did not succeed.
type ResultError struct {
	Code domain.Code
	Err  error
}

func (e *ResultError) Error() string {
	if e.Err == nil {
		return "build " + e.Code.String()
	}
	return e.Err.Error()
}

func (e *ResultError) Unwrap() error {
	return e.Err
}

// ExitCode maps the error returned by Execute onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	code := domain.CodeOf(err)
	var re *ResultError
	if errors.As(err, &re) {
		code = re.Code
	}
	switch code {
	case domain.CodeSuccess, domain.CodeSuccessCached:
		return ExitOK
	case domain.CodeUnsavedChanges:
		return ExitUnsavedChanges
	case domain.CodeCanceled:
		return ExitCanceled
	default:
		return ExitError
	}
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bale",
		Short:         "Build asset bundles from a project's asset index",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to "+domain.ManifestFileName+" or the project directory")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
