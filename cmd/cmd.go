package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/school-admin/internal"
)

const envPrefix = "SCHOOL"

type rootOptions struct {
	configDir string
	logLevel  string
	yes       bool
}

// NewRootCommand builds the whole command tree. Each call returns a fresh
// tree with its own flag state.
func NewRootCommand() *cobra.Command {
	a := &app{opts: &rootOptions{}}

	root := &cobra.Command{
		Use:           "school-admin",
		Short:         "School administration",
		Long:          `Manage staff, students, absence justifications and visitor entries of a secondary school.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configDir, "config", "", "directory holding config.yml")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVarP(&a.opts.yes, "yes", "y", false, "answer yes to every confirmation prompt")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newUsersCmd(a),
		newStudentsCmd(a),
		newJustificationsCmd(a),
		newEntriesCmd(a),
		newHTTPServerCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
	)
	return root
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError shows every field of a validation error on its own line.
func printError(w io.Writer, err error) {
	if errors.Is(err, internal.ErrNotConfirmed) {
		fmt.Fprintln(w, "Operación cancelada.")
		return
	}
	fields := internal.FieldErrors(err)
	if len(fields) <= 1 {
		fmt.Fprintln(w, "Error:", message(err))
		return
	}
	fmt.Fprintln(w, "Error: revisa los siguientes campos")
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
	}
}

// message is the operator facing text of err, without the wrapped causes.
func message(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr.GetDetailedMessage()
	}
	return err.Error()
}

// loadConfig reads config.yml from dir (when given), the working directory
// and $HOME/.school-admin. A missing file is fine: defaults and SCHOOL_*
// environment variables still apply. A .env file in the working directory
// is loaded into the environment first.
func loadConfig(dir string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".school-admin"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	internal.SetDefaults(v)
	// Keys without a default are only seen by Unmarshal when bound.
	if err := v.BindEnv("security.jwt_secret"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
