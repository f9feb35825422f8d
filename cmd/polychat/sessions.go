package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/bridge"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/provider"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/paths"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and edit saved sessions without a running core",
	Long: `Reads and rewrites the session catalog directly. Do not run these while
the core is serving the same data directory; the core keeps the catalog in
memory and will overwrite the edit on its next save.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, pinned first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOffline(func(c *session.Controller) error {
			return printSessions(cmd.OutOrStdout(), c.ListSessions())
		})
	},
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sid, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		if err := utils.ValidateTitle(args[1]); err != nil {
			return err
		}
		return withOffline(func(c *session.Controller) error {
			if err := c.RenameSession(sid, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s\n", sid)
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sid, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		return withOffline(func(c *session.Controller) error {
			if _, ok := c.State().Items[sid]; !ok {
				return fmt.Errorf("%w: %s", session.ErrSessionNotFound, sid)
			}
			if err := c.DeleteSession(sid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", sid)
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsRenameCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func parseSessionID(raw string) (id.SessionID, error) {
	if err := utils.ValidateID(raw, "session_id", true); err != nil {
		return "", err
	}
	return id.SessionID(raw), nil
}

// withOffline runs fn against a controller over the configured store
// with a headless pane manager
func withOffline(fn func(c *session.Controller) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return runOffline(cfg.Storage, fn)
}

func runOffline(storageCfg config.StorageConfig, fn func(c *session.Controller) error) error {
	backend, err := storage.Open(storageCfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	doc, err := backend.Document(paths.SessionsDocument)
	if err != nil {
		return err
	}

	registry := provider.NewRegistry()
	headless := bridge.New(bridge.Discard)
	panes := pane.NewManager(headless, registry)

	// Not closed: Close snapshots the (empty) headless panes over the
	// active layout. Rename and delete persist synchronously.
	c := session.NewController(session.NewStore(doc), panes, registry, session.DefaultOptions())
	return fn(c)
}

func printSessions(w io.Writer, list types.SessionList) error {
	if len(list.Items) == 0 {
		_, err := fmt.Fprintln(w, "No sessions")
		return err
	}

	active := id.SessionID("")
	if list.ActiveID != nil {
		active = *list.ActiveID
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tUPDATED\tFLAGS")
	for _, meta := range list.Items {
		flags := ""
		if meta.Pinned {
			flags += "pinned "
		}
		if meta.ID == active {
			flags += "active"
		}
		updated := time.UnixMilli(meta.UpdatedAt).Format("2006-01-02 15:04")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", meta.ID, meta.Title, updated, flags)
	}
	return tw.Flush()
}
