// Package core contains the consumer session domain types, the request
// parameter assembler, the endpoint registry, response decoders and the
// request dispatcher. Transport and messaging adapters depend on this
// package; core must not depend on them.
package core
