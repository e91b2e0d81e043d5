package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for error output.
var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <table>",
		Short: "List all records of a table",
		Long:  "List prints every record of a table, oldest first.\n\nValid table names: " + validTableNamesStr,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			if !isTable(table) {
				return userError("unknown table %q (valid: %s)", table, validTableNamesStr)
			}

			sess, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			ctx := cmd.Context()
			var rows []any
			switch table {
			case types.CategoriesTable:
				cats, err := sess.svc.ListCategories(ctx)
				if err != nil {
					return storeError(err)
				}
				for _, c := range cats {
					rows = append(rows, c)
				}
			case types.NotesTable:
				notes, err := sess.svc.ListNotes(ctx)
				if err != nil {
					return storeError(err)
				}
				for _, n := range notes {
					rows = append(rows, n)
				}
			case types.TagsTable:
				tags, err := sess.svc.ListTags(ctx)
				if err != nil {
					return storeError(err)
				}
				for _, t := range tags {
					rows = append(rows, t)
				}
			}

			if flags.jsonMode {
				if rows == nil {
					rows = []any{}
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Print one record",
		Long:  "Get prints the record with the given id.\n\nValid table names: " + validTableNamesStr,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, id := args[0], args[1]
			if !isTable(table) {
				return userError("unknown table %q (valid: %s)", table, validTableNamesStr)
			}

			sess, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			ctx := cmd.Context()
			var (
				record any
				found  bool
			)
			switch table {
			case types.CategoriesTable:
				c, err := sess.svc.GetCategory(ctx, id)
				if err != nil {
					return storeError(err)
				}
				record, found = c, c != nil
			case types.NotesTable:
				n, err := sess.svc.GetNote(ctx, id)
				if err != nil {
					return storeError(err)
				}
				record, found = n, n != nil
			case types.TagsTable:
				t, err := sess.svc.GetTag(ctx, id)
				if err != nil {
					return storeError(err)
				}
				record, found = t, t != nil
			}
			if !found {
				return userError("%s %s not found", table, id)
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), record)
			}
			return printRows(cmd.OutOrStdout(), []any{record})
		},
	}
}

func isTable(name string) bool {
	return slices.Contains(types.StandardTableNames, name)
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal output: %v", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

// printRows writes one tab-aligned line per record.
func printRows(w io.Writer, rows []any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		switch r := row.(type) {
		case *types.Category:
			fmt.Fprintf(tw, "%s\t%s\n", r.CategoryID, r.Name)
		case *types.Note:
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.NoteID, r.Title, r.CategoryID)
		case *types.Tag:
			fmt.Fprintf(tw, "%s\t%s\t%s\t[%s]\n", r.TagID, r.Name, r.Color, strings.Join(r.NoteIDs, ","))
		}
	}
	return tw.Flush()
}
