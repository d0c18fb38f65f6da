package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache maintenance",
	}

	flushCmd := &cobra.Command{
		Use:   "flush <namespace>",
		Short: "Remove every key of one cache namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.close()

			namespace, err := app.namespaces.Get(args[0])
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(app.namespaces.Names(), ", "))
			}
			if err := namespace.Flush(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "namespace %s flushed\n", namespace.Name())
			return nil
		},
	}

	cacheCmd.AddCommand(flushCmd)
	return cacheCmd
}
