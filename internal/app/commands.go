package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nhle/bugnet-provider/internal/credential"
	"github.com/nhle/bugnet-provider/internal/model"
	"github.com/nhle/bugnet-provider/internal/store"
	"github.com/nhle/bugnet-provider/internal/tracker"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	projects   []string
	debug      bool
	logOut     io.Writer

	// openSecrets opens the keyring holding the connection string.
	openSecrets func() (*credential.Store, error)

	logger *slog.Logger
}

func (o *options) filter() model.CategoryFilter {
	return model.CategoryFilter(o.projects)
}

func (o *options) provider() (*tracker.Client, error) {
	cfg, err := ResolveConfig(o.configPath, o.logger)
	if err != nil {
		return nil, err
	}
	return NewProvider(cfg, o.logger)
}

// NewRootCommand builds the bugnet command tree. Logs go to logOut.
func NewRootCommand(version string, logOut io.Writer) *cobra.Command {
	return newRootCommand(version, logOut, credential.OpenStore)
}

func newRootCommand(
	version string,
	logOut io.Writer,
	openSecrets func() (*credential.Store, error),
) *cobra.Command {
	opts := &options{logOut: logOut, openSecrets: openSecrets}

	root := &cobra.Command{
		Use:     "bugnet",
		Short:   "Query and manage releases in a BugNet issue tracker",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			handler := slog.NewJSONHandler(opts.logOut, &slog.HandlerOptions{Level: level})
			opts.logger = slog.New(handler).With(
				slog.String("invocation", uuid.New().String()),
				slog.String("command", cmd.Name()),
			)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "Path to the provider configuration file")
	root.PersistentFlags().StringSliceVarP(&opts.projects, "project", "p", nil, "Project (category) id filter; only the first is used")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log every SQL statement")

	root.AddCommand(
		newCategoriesCommand(opts),
		newIssuesCommand(opts),
		newURLCommand(opts),
		newClosedCommand(opts),
		newCreateReleaseCommand(opts),
		newCloseReleaseCommand(opts),
		newValidateCommand(opts),
		newMilestonesCommand(opts),
		newCustomFieldsCommand(opts),
		newConfigCommand(opts),
		newMirrorCommand(opts),
	)
	return root
}

func newCategoriesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List enabled projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}
			cats, err := p.ListCategories(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				rows = append(rows, []string{c.ID, c.Name, string(c.Type)})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE"}, rows)
		},
	}
}

func newIssuesCommand(opts *options) *cobra.Command {
	var release string

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List issues, optionally for one release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}

			var releaseNumber *string
			if cmd.Flags().Changed("release") {
				releaseNumber = &release
			}
			issues, err := p.ListIssues(cmd.Context(), releaseNumber, opts.filter())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(issues))
			for _, i := range issues {
				rows = append(rows, []string{
					i.ID, i.Status, strconv.FormatBool(p.IsIssueClosed(i)),
					i.ReleaseNumber, i.Title, p.IssueURL(i),
				})
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"ID", "STATUS", "CLOSED", "RELEASE", "TITLE", "URL"}, rows)
		},
	}
	cmd.Flags().StringVarP(&release, "release", "r", "", "Release number to filter on")
	return cmd
}

func newURLCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "url ISSUE_ID",
		Short: "Print the tracker URL of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.IssueURL(model.Issue{ID: args[0]}))
			return nil
		},
	}
}

func newClosedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "closed STATUS",
		Short: "Report whether a status name counts as closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.IsIssueClosed(model.Issue{Status: args[0]}))
			return nil
		},
	}
}

func newCreateReleaseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create-release RELEASE",
		Short: "Create a release milestone in the filtered project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}
			return p.CreateRelease(cmd.Context(), args[0], opts.filter())
		},
	}
}

func newCloseReleaseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "close-release RELEASE",
		Short: "Mark a release milestone as released",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}
			return p.CloseRelease(cmd.Context(), args[0], opts.filter())
		},
	}
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the tracker database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.provider()
			if err != nil {
				return err
			}
			if err := p.ValidateConnection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Describe())
			fmt.Fprintln(cmd.OutOrStdout(), "connection OK")
			return nil
		},
	}
}

func newMilestonesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones",
		Short: "List the milestones of the filtered project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, ok := opts.filter().ProjectID()
			if !ok {
				return &tracker.PreconditionError{Field: "category filter", Message: "--project is required"}
			}
			p, err := opts.provider()
			if err != nil {
				return err
			}
			milestones, err := p.ListMilestones(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(milestones))
			for _, m := range milestones {
				due := ""
				if m.DueDate != nil {
					due = *m.DueDate
				}
				rows = append(rows, []string{m.ID, m.Name, m.SortOrder, due, m.Notes})
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"ID", "NAME", "SORT", "DUE", "NOTES"}, rows)
		},
	}
}

func newCustomFieldsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "custom-fields",
		Short: "List the custom fields of the filtered project and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, ok := opts.filter().ProjectID()
			if !ok {
				return &tracker.PreconditionError{Field: "category filter", Message: "--project is required"}
			}
			p, err := opts.provider()
			if err != nil {
				return err
			}
			fields, err := p.ListCustomFields(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range fields {
				fmt.Fprintf(out, "%s\t%s\n", f.ID, f.Name)
				selections, err := p.ListCustomFieldSelections(cmd.Context(), f.ID)
				if err != nil {
					return err
				}
				for _, s := range selections {
					fmt.Fprintf(out, "  %s\t%s\n", s.ID, s.Value)
				}
			}
			return nil
		},
	}
}

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the provider configuration",
	}

	var cfg model.ProviderConfig
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.SaveConfig(opts.configPath, cfg, false); err != nil {
				return err
			}
			opts.logger.Info("configuration written", slog.String("path", opts.configPath))
			return nil
		},
	}
	initCmd.Flags().StringVar(&cfg.Driver, "driver", model.DefaultDriver, "Database driver (sqlserver or sqlite)")
	initCmd.Flags().StringVar(&cfg.ClosedStatusName, "closed-status", model.DefaultClosedStatusName, "Status name that marks an issue closed")
	initCmd.Flags().StringVar(&cfg.ReleaseNumberCustomField, "release-field", "", "Custom field tying issues to releases")
	initCmd.Flags().StringVar(&cfg.TrackerURL, "tracker-url", "", "BugNet web application URL")

	setConn := &cobra.Command{
		Use:   "set-connection",
		Short: "Store the database connection string in the OS keyring (read from stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("reading connection string: %w", err)
			}
			dsn := strings.TrimSpace(line)
			if dsn == "" {
				return model.ErrNoConnectionString
			}
			secrets, err := opts.openSecrets()
			if err != nil {
				return err
			}
			if err := secrets.Set(credential.ConnectionStringKey, dsn); err != nil {
				return err
			}
			opts.logger.Info("connection string stored in keyring")
			return nil
		},
	}

	clearConn := &cobra.Command{
		Use:   "clear-connection",
		Short: "Remove the database connection string from the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := opts.openSecrets()
			if err != nil {
				return err
			}
			err = secrets.Delete(credential.ConnectionStringKey)
			if errors.Is(err, credential.ErrNotFound) {
				opts.logger.Info("no connection string in keyring")
				return nil
			}
			if err != nil {
				return err
			}
			opts.logger.Info("connection string removed from keyring")
			return nil
		},
	}

	cmd.AddCommand(initCmd, setConn, clearConn)
	return cmd
}

func newMirrorCommand(opts *options) *cobra.Command {
	var releaseField string

	cmd := &cobra.Command{
		Use:   "mirror PATH",
		Short: "Create an empty BugNet-shaped SQLite database for offline use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.NewSQLStore(store.DriverSQLite, args[0], opts.logger)
			if err != nil {
				return err
			}
			if err := store.CreateMirror(cmd.Context(), s, releaseField); err != nil {
				return err
			}
			opts.logger.Info("mirror created", slog.String("path", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&releaseField, "release-field", "", "Custom field name exposed by the issues view")
	return cmd
}

// renderTable writes a plain-bordered table of rows under headers.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
