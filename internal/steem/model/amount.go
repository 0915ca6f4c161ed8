package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Asset symbols used on the Steem chain.
const (
	SymbolSteem = "STEEM"
	SymbolSBD   = "SBD"
	SymbolVests = "VESTS"
)

var naiSymbols = map[string]string{
	"@@000000021": SymbolSteem,
	"@@000000013": SymbolSBD,
	"@@000000037": SymbolVests,
}

// Amount is a chain-native quantity such as "12.345000 VESTS".
type Amount struct {
	Value  decimal.Decimal
	Symbol string
}

// ParseAmount parses the legacy "<magnitude> <symbol>" form.
func ParseAmount(s string) (Amount, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Amount{}, fmt.Errorf("amount %q: expected \"<value> <symbol>\"", s)
	}
	v, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Amount{}, fmt.Errorf("amount %q: %w", s, err)
	}
	return Amount{Value: v, Symbol: fields[1]}, nil
}

// String formats the amount using the chain precision of its symbol.
func (a Amount) String() string {
	places := int32(3)
	if a.Symbol == SymbolVests {
		places = 6
	}
	return a.Value.StringFixed(places) + " " + a.Symbol
}

// IsZero reports whether the magnitude is zero.
func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

type naiAmount struct {
	Amount    string `json:"amount"`
	Precision int32  `json:"precision"`
	NAI       string `json:"nai"`
}

// UnmarshalJSON accepts both "1.000 STEEM" and {"amount":"1000","precision":3,"nai":"@@000000021"}.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = Amount{}
			return nil
		}
		parsed, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}

	var n naiAmount
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if n.Amount == "" {
		return errors.New("amount: missing value")
	}
	raw, err := decimal.NewFromString(n.Amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", n.Amount, err)
	}
	symbol, ok := naiSymbols[n.NAI]
	if !ok {
		symbol = n.NAI
	}
	*a = Amount{Value: raw.Shift(-n.Precision), Symbol: symbol}
	return nil
}

// MarshalJSON writes the legacy string form.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Symbol == "" {
		return []byte(`""`), nil
	}
	return json.Marshal(a.String())
}
