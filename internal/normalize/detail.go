package normalize

import (
	"github.com/pkg/errors"

	"kriptomarket/internal/asset"
)

// NormalizeDetail maps one detail payload onto a Detail, joining venue
// tickers with the exchange metadata carried by the record.
func NormalizeDetail(r DetailRecord, opts Options) (asset.Detail, error) {
	switch rec := r.(type) {
	case CoinGeckoCoin:
		return fromCoinGeckoCoin(rec)
	case *CoinGeckoCoin:
		return fromCoinGeckoCoin(*rec)
	case CoinCapDetail:
		return fromCoinCapDetail(rec, opts)
	case *CoinCapDetail:
		return fromCoinCapDetail(*rec, opts)
	case DexPair:
		return fromDexPairDetail(rec)
	case *DexPair:
		return fromDexPairDetail(*rec)
	case nil:
		return asset.Detail{}, errors.Wrap(ErrMalformedRecord, "nil detail record")
	default:
		return asset.Detail{}, errors.Wrapf(ErrMalformedRecord, "unsupported detail record type %T", r)
	}
}
