package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nerrad567/gucfop/internal/infrastructure/mongodb"
)

func newMongoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mongo",
		Short: "Operate on the configured MongoDB collection",
		Long: `Operate on the database and collection named in the mongodb section
of the config. Documents are given and printed as relaxed Extended JSON.`,
	}
	cmd.AddCommand(
		newMongoInsertCommand(a),
		newMongoFindCommand(a),
		newMongoDropCollectionCommand(a),
		newMongoDropDatabaseCommand(a),
	)
	return cmd
}

// withMongo connects, runs fn, and disconnects.
func (a *app) withMongo(ctx context.Context, fn func(*mongodb.Client) error) error {
	cfg, err := a.config(ctx)
	if err != nil {
		return err
	}
	client, err := mongodb.Connect(ctx, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(context.WithoutCancel(ctx)); closeErr != nil {
			a.log.Error("error closing MongoDB", "error", closeErr)
		}
	}()
	return fn(client)
}

func newMongoInsertCommand(a *app) *cobra.Command {
	var doc, file string

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert one document (--doc) or a JSON array of documents (--file)",
		Example: `  gucfop mongo insert --doc '{"name":"Jane Doe","address":"123 Main St"}'
  gucfop mongo insert --file people.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (doc == "") == (file == "") {
				return fmt.Errorf("exactly one of --doc or --file is required")
			}

			return a.withMongo(cmd.Context(), func(client *mongodb.Client) error {
				if doc != "" {
					var d bson.M
					if err := bson.UnmarshalExtJSON([]byte(doc), false, &d); err != nil {
						return fmt.Errorf("parsing --doc: %w", err)
					}
					id, err := client.InsertOne(cmd.Context(), d)
					if err != nil {
						return err
					}
					return printExtJSON(a, bson.M{"inserted_id": id})
				}

				docs, err := readDocuments(file)
				if err != nil {
					return err
				}
				ids, err := client.InsertMany(cmd.Context(), docs)
				if err != nil {
					return err
				}
				return printExtJSON(a, bson.M{"inserted_ids": ids})
			})
		},
	}

	cmd.Flags().StringVar(&doc, "doc", "", "document as JSON")
	cmd.Flags().StringVar(&file, "file", "", "file holding a JSON array of documents")
	return cmd
}

func newMongoFindCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print documents matching a filter, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f any
			if filter != "" {
				var m bson.M
				if err := bson.UnmarshalExtJSON([]byte(filter), false, &m); err != nil {
					return fmt.Errorf("parsing --filter: %w", err)
				}
				f = m
			}

			return a.withMongo(cmd.Context(), func(client *mongodb.Client) error {
				docs, err := client.Find(cmd.Context(), f)
				if err != nil {
					return err
				}
				for _, d := range docs {
					if err := printExtJSON(a, d); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "query filter as JSON (default all documents)")
	return cmd
}

func newMongoDropCollectionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop-collection",
		Short: "Drop the configured collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMongo(cmd.Context(), func(client *mongodb.Client) error {
				if err := client.DropCollection(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "dropped collection %s.%s\n", client.Database(), client.Collection())
				return nil
			})
		},
	}
}

func newMongoDropDatabaseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop-database",
		Short: "Drop the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMongo(cmd.Context(), func(client *mongodb.Client) error {
				if err := client.DropDatabase(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "dropped database %s\n", client.Database())
				return nil
			})
		},
	}
}

// readDocuments parses a file holding a JSON array of documents.
func readDocuments(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	// Extended JSON decodes documents, so wrap the array in one.
	var wrapper struct {
		Docs []bson.M `bson:"docs"`
	}
	wrapped := append(append([]byte(`{"docs":`), data...), '}')
	if err := bson.UnmarshalExtJSON(wrapped, false, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing documents: %w", err)
	}

	docs := make([]any, len(wrapper.Docs))
	for i, d := range wrapper.Docs {
		docs[i] = d
	}
	return docs, nil
}

func printExtJSON(a *app, v any) error {
	out, err := bson.MarshalExtJSON(v, false, false)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}
