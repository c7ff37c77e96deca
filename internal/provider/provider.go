package provider

import (
	"context"
	"strconv"
	"strings"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
)

// Request selects what a listing fetch asks the upstream for. Providers
// ignore the fields that do not apply to them.
type Request struct {
	// Limit is the number of records per page.
	Limit int
	// Page is 1-based.
	Page int
	// Query is the DEX search term.
	Query string
	// Tokens are DEX token addresses; when set they replace Query.
	Tokens []string
}

// Key is a stable cache key for the request.
func (r Request) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.Limit))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(r.Page))
	b.WriteByte('|')
	b.WriteString(r.Query)
	b.WriteByte('|')
	b.WriteString(strings.Join(r.Tokens, ","))
	return b.String()
}

// Provider fetches raw listing records from one upstream.
type Provider interface {
	Name() string
	Source() asset.Source
	Fetch(ctx context.Context, req Request) ([]normalize.Record, error)
}

// DetailProvider fetches the raw detail payload of one asset.
type DetailProvider interface {
	FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error)
}

// Detail calls FetchDetail when p supports it.
func Detail(ctx context.Context, p Provider, ref asset.Ref) (normalize.DetailRecord, error) {
	dp, ok := p.(DetailProvider)
	if !ok {
		return nil, ErrDetailUnsupported
	}
	return dp.FetchDetail(ctx, ref)
}
