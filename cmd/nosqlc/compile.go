package main

import (
	"encoding/json"
	"fmt"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCompileCmd(v *viper.Viper) *cobra.Command {
	f := &statementFlags{}
	cmd := &cobra.Command{
		Use:   "compile <find|insert|update|remove|count>",
		Short: "Print the SQL and arguments of a statement without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOperation(args[0]); err != nil {
				return err
			}
			dialect, err := dialectOf(v)
			if err != nil {
				return err
			}
			stmt, err := compile(dialect, args[0], f)
			if err != nil {
				return err
			}
			return printStatement(cmd, stmt)
		},
	}
	f.register(cmd)
	return cmd
}

func compile(dialect nosql.Dialect, op string, f *statementFlags) (*nosql.Statement, error) {
	d, err := f.parse()
	if err != nil {
		return nil, err
	}

	var b nosql.StatementBuilder
	switch op {
	case nosql.OperationFind:
		b = nosql.NewSelector(dialect, f.table, d.query).
			Select(d.projection).
			Sort(d.sort).
			Offset(f.skip).
			Limit(f.limit)
	case nosql.OperationInsert:
		b = nosql.NewInserter(dialect, f.table, d.fields).ID(f.id)
	case nosql.OperationUpdate:
		b = nosql.NewUpdater(dialect, f.table, d.query, d.update).Returning(f.ret)
	case nosql.OperationRemove:
		b = nosql.NewDeleter(dialect, f.table, d.query)
	default:
		b = nosql.NewCounter(dialect, f.table, d.query)
	}
	return b.Build()
}

func printStatement(cmd *cobra.Command, stmt *nosql.Statement) error {
	args := stmt.Args
	if args == nil {
		args = []any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, stmt.SQL)
	fmt.Fprintln(out, string(data))
	return nil
}
