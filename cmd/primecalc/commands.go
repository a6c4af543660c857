package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/primecalc/internal/arith"
	"github.com/sandeepkv93/primecalc/internal/calc"
	"github.com/sandeepkv93/primecalc/internal/storage"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(args, " ")
			v, err := arith.Evaluate(calc.Translate(expr))
			if err != nil {
				return fmt.Errorf("evaluate %q: %w", expr, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), arith.FormatNumber(v))
			return err
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the stored user name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := storage.Open(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			name := "Guest"
			setting, err := repo.GetSetting(commandContext(cmd), storage.UserNameKey)
			switch {
			case err == nil:
				name = setting.Value
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Store the user name shown in the greeting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("name is required")
			}
			repo, err := storage.Open(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.PutSetting(commandContext(cmd), storage.Setting{
				Key:       storage.UserNameKey,
				Value:     name,
				UpdatedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", name)
			return err
		},
	}
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored user name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := storage.Open(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			err = repo.DeleteSetting(commandContext(cmd), storage.UserNameKey)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return err
		},
	}
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	var filter storage.SettingListFilter
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "List stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := storage.Open(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			settings, err := repo.ListSettings(commandContext(cmd), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(settings) == 0 {
				_, err = fmt.Fprintln(out, "(no settings)")
				return err
			}
			for _, s := range settings {
				if _, err := fmt.Fprintf(out, "%s=%s\t%s\n", s.Key, s.Value, s.UpdatedAt.Format(time.RFC3339)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Prefix, "prefix", "", "only keys starting with this prefix")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 0, "maximum settings to print (0 = all)")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "settings to skip before printing (needs --limit)")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
