package main

import (
	"context"
	"encoding/json"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	f := &statementFlags{}
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "run <find|insert|update|remove|count>",
		Short: "Execute a statement against the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOperation(args[0]); err != nil {
				return err
			}
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}

			var opts []nosql.DBOption
			if cfg.Debug {
				opts = append(opts, nosql.WithDebug())
			}
			db, err := nosql.Connect(cfg.Dialect, cfg.ConnParams, opts...)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := run(cmd.Context(), db, args[0], f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./.nosqlc.yaml)")
	cmd.Flags().Bool("debug", false, "log compiled statements")
	_ = v.BindPFlag("debug", cmd.Flags().Lookup("debug"))
	f.register(cmd)
	return cmd
}

func run(ctx context.Context, db *nosql.DB, op string, f *statementFlags) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := f.parse()
	if err != nil {
		return nil, err
	}
	m := db.Model(f.table, nil)

	switch op {
	case nosql.OperationFind:
		q := m.Find(d.query).Sort(d.sort).Skip(f.skip).Limit(f.limit)
		if d.projection != nil {
			q = q.Select(d.projection)
		}
		return q.Exec(ctx)
	case nosql.OperationInsert:
		var opts []nosql.InsertOption
		if f.id != "" {
			opts = append(opts, nosql.WithID(f.id))
		}
		return m.Insert(ctx, d.fields, opts...)
	case nosql.OperationUpdate:
		var opts []nosql.UpdateOption
		if f.ret != "" {
			opts = append(opts, nosql.WithReturn(f.ret))
		}
		n, row, err := m.Update(ctx, d.query, d.update, opts...)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": n, "row": row}, nil
	case nosql.OperationRemove:
		n, err := m.Remove(ctx, d.query)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": n}, nil
	default:
		n, err := m.Count(ctx, d.query)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": n}, nil
	}
}
