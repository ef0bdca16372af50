package main

import (
	"github.com/spf13/cobra"

	"bookmark-api/internal"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := internal.NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			app.InitControllers()

			return app.Run(ctx)
		},
	}
}
