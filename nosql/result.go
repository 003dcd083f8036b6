package nosql

import (
	"database/sql"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Result 包装写操作的执行结果
type Result struct {
	res sql.Result
	err error
}

func NewResult(res sql.Result, err error) Result {
	return Result{res: res, err: err}
}

func (r Result) LastInsertId() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.res == nil {
		return 0, ferr.ErrNoResult
	}
	return r.res.LastInsertId()
}

func (r Result) RowsAffected() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.res == nil {
		return 0, ferr.ErrNoResult
	}
	return r.res.RowsAffected()
}

func (r Result) Err() error {
	return r.err
}
