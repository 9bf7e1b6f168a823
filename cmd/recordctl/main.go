// Command recordctl manages user records through the record store.
package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	store "github.com/likearthian/recordstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	a := &app{}
	err := newRootCommand(a).Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the connection and repositories shared by every command. It is
// filled in by the root command before any subcommand runs and closed by the
// caller of Execute, whether the command failed or not.
type app struct {
	db    *sqlx.DB
	users *store.Repository[User]
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newRootCommand(a *app) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "recordctl",
		Short:         "Inspect and edit user records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			db, err := store.Connect(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			a.db = db

			b, err := store.NewBuilder(db, store.WithLogger(logger))
			if err != nil {
				return err
			}

			a.users, err = store.NewRepository[User](b)
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("driver", "", "database driver: mysql, pgx, postgres or sqlite")
	flags.String("dsn", "", "data source name, overrides the other connection settings")
	flags.String("host", "", "database host")
	flags.String("port", "", "database port")
	flags.String("database", "", "database name, or file for sqlite")
	flags.String("user", "", "database user")
	flags.String("password", "", "database password")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")

	for _, name := range []string{"driver", "dsn", "host", "port", "database", "user", "password", "log-level", "log-format"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(newUserCommand(a))

	return cmd
}
