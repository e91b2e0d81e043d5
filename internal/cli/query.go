package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/api"
)

func newQueryCmd(flags *rootFlags) *cobra.Command {
	var (
		vars      []string
		operation string
	)
	cmd := &cobra.Command{
		Use:   "query <document>",
		Short: "Execute a GraphQL document against local storage",
		Long: `Query executes one GraphQL query or mutation and prints the JSON result.
Use "-" to read the document from stdin.

Variables are given as key=value. Values that parse as JSON are passed
as such; anything else is passed as a string.

Example:
  notebook query '{ categories { id categoryName } }'
  notebook query 'mutation($n: String) { addCategory(categoryName: $n) { id } }' --var n=Work`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := args[0]
			if doc == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return sysError("read stdin: %v", err)
				}
				doc = string(data)
			}
			variables, err := parseVars(vars)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			a, err := api.New(sess.svc,
				api.WithPolicy(sess.settings.errorPolicy),
				api.WithLogger(sess.logger))
			if err != nil {
				return sysError("%v", err)
			}

			res := a.Do(cmd.Context(), api.Request{Query: doc, Variables: variables, OperationName: operation})
			output, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return sysError("marshal result: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			if res.HasErrors() {
				return userError("query returned %d error(s)", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable as key=value (repeatable)")
	cmd.Flags().StringVar(&operation, "operation", "", "operation name when the document has several")
	return cmd
}

// parseVars turns key=value pairs into GraphQL variables.
func parseVars(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, userError("invalid variable %q (expected key=value)", pair)
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		out[key] = parsed
	}
	return out, nil
}
