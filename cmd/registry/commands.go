package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/lgsbc-git/lgstech-backend/internal/store"
	"github.com/spf13/cobra"
)

type storeOpener func(ctx context.Context) (store.SubscriberStore, error)

func newRootCmd(open storeOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "registry",
		Short:        "Manage the LGSTech subscriber registry",
		SilenceUsage: true,
	}
	root.AddCommand(newListCmd(open), newAddCmd(open), newRemoveCmd(open))
	return root
}

func newListCmd(open storeOpener) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print subscribers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), open, func(s store.SubscriberStore) error {
				subs, err := s.List(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(domain.ListSubscribersResponse{Subscribers: subs})
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "EMAIL\tSUBSCRIBED")
				for _, sub := range subs {
					when := "-"
					if sub.CreatedAt != nil {
						when = sub.CreatedAt.UTC().Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(tw, "%s\t%s\n", sub.Email, when)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the admin listing JSON")
	return cmd
}

func newAddCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "add <email>",
		Short: "Register an email without sending a confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := domain.ParseEmail(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), open, func(s store.SubscriberStore) error {
				id, err := s.Add(cmd.Context(), email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (id %s)\n", email, id)
				return nil
			})
		},
	}
}

func newRemoveCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove an email; unknown addresses are not an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := domain.NormalizeEmail(args[0])
			if email == "" {
				return domain.ErrEmailRequired
			}
			return withStore(cmd.Context(), open, func(s store.SubscriberStore) error {
				removed, err := s.Remove(cmd.Context(), email)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", email)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was not subscribed\n", email)
				}
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, open storeOpener, fn func(store.SubscriberStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
