package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xela07ax/bizdash/internal/schema"
)

// errInvalid: хотя бы один вход не прошёл проверку (код выхода 1 без лишнего вывода).
var errInvalid = errors.New("one or more inputs are invalid")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schemactl",
		Short:         "Validate dashboard contracts offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEntitiesCmd(), newValidateCmd())
	return root
}

func newEntitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List known entity schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range schema.Entities() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:   "validate --entity <name> [file...]",
		Short: "Validate JSON files (or stdin) against an entity schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			parse, ok := schema.Lookup(entity)
			if !ok {
				return fmt.Errorf("unknown entity %q (see: schemactl entities)", entity)
			}

			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				if !report(cmd.OutOrStdout(), "-", data, parse) {
					return errInvalid
				}
				return nil
			}

			allValid := true
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				if !report(cmd.OutOrStdout(), path, data, parse) {
					allValid = false
				}
			}
			if !allValid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&entity, "entity", "e", "", "entity schema name")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

// report печатает нормализованный JSON или список нарушений. Возвращает признак валидности.
func report(w io.Writer, name string, data []byte, parse schema.Parser) bool {
	input, err := schema.Decode(data)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", name, err)
		return false
	}

	value, err := parse(input)
	if err != nil {
		vErr, ok := schema.AsValidationError(err)
		if !ok {
			fmt.Fprintf(w, "%s: %v\n", name, err)
			return false
		}
		fmt.Fprintf(w, "%s: invalid\n", name)
		for _, issue := range vErr.Issues {
			fmt.Fprintf(w, "  - [%s] %s\n", issue.Code, issue)
		}
		return false
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%s: encode: %v\n", name, err)
		return false
	}
	fmt.Fprintf(w, "%s: ok\n%s\n", name, out)
	return true
}
