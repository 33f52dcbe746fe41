package domain

import "context"

// Transactor 在一个短事务里执行 fn；fn 内的仓储调用需透传 ctx
type Transactor interface {
	Tx(ctx context.Context, fn func(ctx context.Context) error) error
}
