package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBucketCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Administer InfluxDB buckets",
	}
	cmd.AddCommand(
		newBucketCreateCommand(a),
		newBucketDeleteCommand(a),
		newBucketListCommand(a),
	)
	return cmd
}

func newBucketCreateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a bucket in the configured organisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.influx(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeInflux(client)

			created, err := client.CreateBucket(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(a.stdout, "created bucket %s\n", args[0])
			} else {
				fmt.Fprintf(a.stdout, "bucket %s already exists\n", args[0])
			}
			return nil
		},
	}
}

func newBucketDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.influx(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeInflux(client)

			if err := client.DeleteBucket(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted bucket %s\n", args[0])
			return nil
		},
	}
}

func newBucketListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bucket names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.influx(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeInflux(client)

			names, err := client.ListBuckets(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}
