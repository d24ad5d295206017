package query

import (
	"context"

	"github.com/goliatone/go-consumers/core"
)

type SessionReader interface {
	LookupConsumerSession(
		ctx context.Context,
		req core.LookupRequest,
		options core.RequestOptions,
	) (core.ConsumerSessionLookup, error)
}

type LookupConsumerSessionQuery struct {
	reader SessionReader
}

func NewLookupConsumerSessionQuery(reader SessionReader) *LookupConsumerSessionQuery {
	return &LookupConsumerSessionQuery{reader: reader}
}

func (q *LookupConsumerSessionQuery) Query(
	ctx context.Context,
	msg LookupConsumerSessionMessage,
) (core.ConsumerSessionLookup, error) {
	if q == nil || q.reader == nil {
		return core.ConsumerSessionLookup{}, queryDependencyError("query: consumer session reader is required")
	}
	return q.reader.LookupConsumerSession(ctx, msg.Request, msg.Options)
}
