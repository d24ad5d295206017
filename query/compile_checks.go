package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-consumers/core"
)

var (
	_ gocmd.Querier[LookupConsumerSessionMessage, core.ConsumerSessionLookup] = (*LookupConsumerSessionQuery)(nil)

	_ SessionReader = (*core.Client)(nil)
)
