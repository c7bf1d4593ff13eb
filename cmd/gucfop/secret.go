package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSecretCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Read secrets from AWS Secrets Manager",
	}
	cmd.AddCommand(newSecretGetCommand(a))
	return cmd
}

func newSecretGetCommand(a *app) *cobra.Command {
	var region, key string

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print a secret's value",
		Long: `Print the current value of a secret.

The string value is printed when present, otherwise the binary value.
With --key the secret is read as a JSON object and only that key's value
is printed.`,
		Example: `  gucfop secret get prod/influx-token
  gucfop secret get prod/db --key password --region eu-west-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := a.config(ctx)
			if err != nil {
				return err
			}

			client, err := a.secretsClient(ctx, cfg, region)
			if err != nil {
				return err
			}

			var value string
			if key != "" {
				value, err = client.GetSecretJSON(ctx, args[0], key)
			} else {
				value, err = client.GetSecret(ctx, args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from config, then us-west-2)")
	cmd.Flags().StringVar(&key, "key", "", "print one key of a JSON secret")
	return cmd
}
