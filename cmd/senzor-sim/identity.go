package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/senzor/pkg/session"
)

func newIdentityCmd(root *rootFlags) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Print the identity stored for a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessionCfg, err := loadSessionConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dev, err := root.device.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = dev.close() }()

			store := session.NewStore(dev.durable, dev.tab(tab), sessionCfg.KeyPrefix, root.logger(cmd.ErrOrStderr()))
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "device:        %s\n", root.device.name)
			fmt.Fprintf(out, "visitor id:    %s\n", orNone(store.VisitorID(ctx)))
			if last, ok := store.LastActivity(ctx); ok {
				fmt.Fprintf(out, "last activity: %s\n", last.Format(time.RFC3339))
			} else {
				fmt.Fprintf(out, "last activity: %s\n", orNone(""))
			}
			fmt.Fprintf(out, "tab:           %s\n", tab)
			fmt.Fprintf(out, "session id:    %s\n", orNone(store.SessionID(ctx)))
			fmt.Fprintf(out, "referrer:      %s\n", orNone(store.Referrer(ctx)))
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "main", "Tab whose session storage to read")
	return cmd
}

func newForgetCmd(root *rootFlags) *cobra.Command {
	var tabs []string

	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Drop the stored identity of a device, like clearing site data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dev, err := root.device.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = dev.close() }()

			scopes := []session.Scope{dev.durable}
			for _, t := range tabs {
				scopes = append(scopes, dev.tab(t))
			}
			for _, s := range scopes {
				if c, ok := s.(clearer); ok {
					if err := c.Clear(ctx); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forgot device %s\n", root.device.name)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tabs, "tab", []string{"main"}, "Tabs whose session storage to drop as well")
	return cmd
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
