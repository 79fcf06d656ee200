package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/backends"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/spf13/cobra"
)

func main() {
	root, cleanup := newRootCmd()
	err := root.Execute()
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned cleanup closes whatever
// backends the run opened and must be called whether or not Execute failed;
// cobra skips post-run hooks when RunE errors.
func newRootCmd() (*cobra.Command, func()) {
	var (
		out     = "text"
		timeout = 2 * time.Minute
		b       *backends.Backends
		cancel  context.CancelFunc = func() {}
	)

	root := &cobra.Command{
		Use:           "vivactl",
		Short:         "Operator tasks against the VivaMove backends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.Setup(cfg.AppEnv)
			var ctx context.Context
			ctx, cancel = context.WithTimeout(context.Background(), timeout)
			cmd.SetContext(ctx)

			var err error
			b, err = backends.Open(ctx, cfg)
			return err
		},
	}
	cleanup := func() {
		if b != nil {
			b.Close(context.Background())
			b = nil
		}
		cancel()
	}
	root.PersistentFlags().StringVar(&out, "out", out, "output format: json|text")
	root.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "overall command timeout")

	// grant-admin: bootstrap an admin without going through the HTTP allow-list hook.
	var email string
	grantCmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Merge the admin claim into an existing identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			svc := services.NewClaimService(b.Identity, roles.NewPolicy(nil))
			msg, err := svc.GrantAdmin(cmd.Context(), email)
			if err != nil {
				return err
			}
			return emit(cmd, out, map[string]string{"message": msg}, msg)
		},
	}
	grantCmd.Flags().StringVar(&email, "email", "", "email of the identity to promote")

	var prune bool
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report identities and documents left behind by interrupted flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewReconcileService(b.Identity, b.Store)
			findings, err := svc.Scan(cmd.Context())
			if err != nil {
				return err
			}

			result := map[string]any{"findings": findings}
			if prune {
				pruned, err := svc.PruneOrphanIdentities(cmd.Context(), findings)
				if err != nil {
					return err
				}
				result["pruned"] = pruned
			}

			if out == "json" {
				return emit(cmd, out, result, "")
			}
			if len(findings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no inconsistencies found")
			}
			for _, f := range findings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", f.UID, f.Email, f.ClinicID, f.Reason)
			}
			if prune {
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d orphan identities\n", result["pruned"])
			}
			return nil
		},
	}
	reconcileCmd.Flags().BoolVar(&prune, "prune", false, "delete identities whose document is missing")

	root.AddCommand(grantCmd, reconcileCmd)
	return root, cleanup
}

func emit(cmd *cobra.Command, out string, v any, text string) error {
	if out != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
