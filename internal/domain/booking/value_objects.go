package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is a half-open time interval [start, end).
type Period struct {
	start time.Time
	end   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	if !end.After(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{start: start, end: end}, nil
}

func (p Period) Start() time.Time        { return p.start }
func (p Period) End() time.Time          { return p.end }
func (p Period) Duration() time.Duration { return p.end.Sub(p.start) }
func (p Period) IsZero() bool            { return p.start.IsZero() && p.end.IsZero() }

func (p Period) Overlaps(other Period) bool {
	return p.start.Before(other.end) && p.end.After(other.start)
}

func (p Period) String() string {
	return p.start.Format(time.RFC3339) + "/" + p.end.Format(time.RFC3339)
}

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return true
	default:
		return false
	}
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidCurrency.WithMessage(fmt.Sprintf("'%s' is not a supported currency", s))
	}
	return c, nil
}

// Amounts are kept to two decimal places.
const priceScale = 2

type Price struct {
	amount   decimal.Decimal
	currency Currency
}

func NewPrice(amount decimal.Decimal, currency Currency) (Price, error) {
	if amount.IsNegative() {
		return Price{}, ErrInvalidPrice.WithMessage("price cannot be negative")
	}
	if !currency.IsValid() {
		return Price{}, ErrInvalidCurrency
	}
	return Price{amount: amount.Round(priceScale), currency: currency}, nil
}

func (p Price) Amount() decimal.Decimal { return p.amount }
func (p Price) Currency() Currency      { return p.currency }

func (p Price) Add(other Price) (Price, error) {
	if p.currency != other.currency {
		return Price{}, ErrCurrencyMismatch
	}
	return Price{amount: p.amount.Add(other.amount), currency: p.currency}, nil
}

func (p Price) Equal(other Price) bool {
	return p.currency == other.currency && p.amount.Equal(other.amount)
}

func (p Price) String() string {
	return p.amount.StringFixed(priceScale) + " " + string(p.currency)
}

type Configuration struct {
	modality Modality
	gameType GameType
}

func NewConfiguration(modality Modality, gameType GameType) (Configuration, error) {
	if !modality.IsValid() {
		return Configuration{}, ErrInvalidModality
	}
	if !gameType.IsValid() {
		return Configuration{}, ErrInvalidGameType
	}
	return Configuration{modality: modality, gameType: gameType}, nil
}

func (c Configuration) Modality() Modality  { return c.modality }
func (c Configuration) GameType() GameType  { return c.gameType }
func (c Configuration) MaxPlayers() int     { return c.gameType.MaxPlayers() }
func (c Configuration) IsMatchmaking() bool { return c.modality == ModalityMatchmaking }

func (c Configuration) isValid() bool {
	return c.modality.IsValid() && c.gameType.IsValid()
}

// Player is a participant of a booking. Exactly one player per booking is the requester.
type Player struct {
	UserID      uuid.UUID
	Rank        Rank
	IsRequester bool
}
