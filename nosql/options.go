package nosql

type insertOptions struct {
	id string
}

// InsertOption insert 配置项
type InsertOption func(*insertOptions)

// WithID 指定自增主键列，insert 会返回只包含该列的记录
func WithID(col string) InsertOption {
	return func(o *insertOptions) {
		o.id = col
	}
}

type updateOptions struct {
	ret string
}

// UpdateOption update 配置项
type UpdateOption func(*updateOptions)

// WithReturn 指定需要返回的列，只在支持 RETURNING 的方言上返回数据
func WithReturn(col string) UpdateOption {
	return func(o *updateOptions) {
		o.ret = col
	}
}
