package database

import "context"

type txKey struct{}

type txInfo struct {
	tx    Transaction
	owned bool
}

func withTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, txInfo{tx: tx, owned: owned})
}

func txInfoFrom(ctx context.Context) (txInfo, bool) {
	info, ok := ctx.Value(txKey{}).(txInfo)
	if !ok || info.tx == nil {
		return txInfo{}, false
	}
	return info, true
}

// ExecutorFromContext returns the transaction bound to ctx, or conn when
// there is none, so repositories join a unit of work transparently.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if info, ok := txInfoFrom(ctx); ok {
		return info.tx
	}
	return conn
}
