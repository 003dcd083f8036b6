package main

import (
	"fmt"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var operations = []string{
	nosql.OperationFind,
	nosql.OperationInsert,
	nosql.OperationUpdate,
	nosql.OperationRemove,
	nosql.OperationCount,
}

func newRootCmd() *cobra.Command {
	v := newViper()

	root := &cobra.Command{
		Use:          "nosqlc",
		Short:        "Compile MongoDB-style query documents to SQL",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("dialect", "", "database dialect: mysql or pgsql (env NOSQL_DIALECT)")
	_ = v.BindPFlag("dialect", root.PersistentFlags().Lookup("dialect"))

	root.AddCommand(newCompileCmd(v))
	root.AddCommand(newRunCmd(v))
	return root
}

// statementFlags find/insert/update/remove/count 共用的参数
type statementFlags struct {
	table      string
	query      string
	update     string
	fields     string
	projection string
	sort       string
	skip       int
	limit      int
	id         string
	ret        string
}

func (f *statementFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.table, "table", "t", "", "table name (required)")
	flags.StringVarP(&f.query, "query", "q", "", "query document, JSON or YAML")
	flags.StringVarP(&f.update, "update", "u", "", "update document for update")
	flags.StringVarP(&f.fields, "fields", "f", "", "field document for insert")
	flags.StringVarP(&f.projection, "projection", "p", "", "projection list or document for find")
	flags.StringVarP(&f.sort, "sort", "s", "", "sort document for find")
	flags.IntVar(&f.skip, "skip", -1, "offset for find, negative to omit")
	flags.IntVar(&f.limit, "limit", -1, "limit for find, negative to omit")
	flags.StringVar(&f.id, "id", "", "generated key column for insert")
	flags.StringVar(&f.ret, "return", "", "returned column for update")
	_ = cmd.MarkFlagRequired("table")
}

// docs 解析出的文档
type docs struct {
	query      any
	update     any
	fields     any
	projection any
	sort       any
}

func (f *statementFlags) parse() (*docs, error) {
	d := &docs{}
	var err error
	if d.query, err = parseDoc(f.query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if d.update, err = parseDoc(f.update); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	if d.fields, err = parseDoc(f.fields); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	if d.sort, err = parseDoc(f.sort); err != nil {
		return nil, fmt.Errorf("sort: %w", err)
	}
	if f.projection != "" {
		if d.projection, err = nosql.ParseValue([]byte(f.projection)); err != nil {
			return nil, fmt.Errorf("projection: %w", err)
		}
	}
	return d, nil
}

func parseDoc(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	return nosql.ParseDocument([]byte(s))
}

func checkOperation(op string) error {
	for _, o := range operations {
		if o == op {
			return nil
		}
	}
	return fmt.Errorf("unknown operation %q, expected one of %v", op, operations)
}

func dialectOf(v *viper.Viper) (nosql.Dialect, error) {
	return nosql.GetDialect(v.GetString("dialect"))
}
