package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dvloznov/statement-importer/internal/app"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/templates"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage category templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List category templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, services, err := setup(cmd, app.Options{SkipArchive: true})
			if err != nil {
				return err
			}
			defer services.Close()

			list := services.Templates.Templates()
			if len(list) == 0 {
				fmt.Printf("No templates in %s\n", services.Templates.Path())
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKEYWORDS\tCATEGORY\tCONFIDENCE")
			for _, tpl := range list {
				for _, r := range tpl.Rules {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						tpl.ID, tpl.Name, strings.Join(r.Keywords, ", "), r.Category, r.Confidence)
				}
			}
			return tw.Flush()
		},
	})

	var (
		name, category, confidence, id string
		keywords                       []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a template with one rule, or replace the template with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, services, err := setup(cmd, app.Options{SkipArchive: true})
			if err != nil {
				return err
			}
			defer services.Close()

			saved, err := templates.Upsert(ctx, services.Templates, domain.CategoryTemplate{
				ID:   id,
				Name: name,
				Rules: []domain.TemplateRule{{
					Keywords:   keywords,
					Category:   domain.Category(category),
					Confidence: domain.Confidence(confidence),
				}},
			})
			if err != nil {
				return err
			}
			fmt.Printf("Saved template %s\n", saved.ID)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "ID of the template to replace")
	add.Flags().StringVar(&name, "name", "", "Template name")
	add.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Keyword to match (repeatable)")
	add.Flags().StringVar(&category, "category", "", "Category to assign")
	add.Flags().StringVar(&confidence, "confidence", string(domain.ConfidenceHigh), "high or medium")
	_ = add.MarkFlagRequired("keyword")
	_ = add.MarkFlagRequired("category")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, services, err := setup(cmd, app.Options{SkipArchive: true})
			if err != nil {
				return err
			}
			defer services.Close()

			if err := templates.Delete(ctx, services.Templates, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted template %s\n", args[0])
			return nil
		},
	})

	return cmd
}
