package booking

import (
	"fmt"
	"strings"

	"court-booking/internal/pkg/errs"
)

type Modality string

const (
	ModalityDirect      Modality = "direct"
	ModalityMatchmaking Modality = "matchmaking"
)

func (m Modality) String() string {
	return string(m)
}

func (m Modality) IsValid() bool {
	switch m {
	case ModalityDirect, ModalityMatchmaking:
		return true
	default:
		return false
	}
}

type GameType string

const (
	GameTypeSingles GameType = "singles"
	GameTypeDoubles GameType = "doubles"
)

func (g GameType) String() string {
	return string(g)
}

func (g GameType) IsValid() bool {
	switch g {
	case GameTypeSingles, GameTypeDoubles:
		return true
	default:
		return false
	}
}

// MaxPlayers panics for values outside the enumeration; callers validate first.
func (g GameType) MaxPlayers() int {
	switch g {
	case GameTypeSingles:
		return 2
	case GameTypeDoubles:
		return 4
	default:
		panic(fmt.Errorf("%w: %q", ErrUnknownGameType, string(g)))
	}
}

type Rank string

const (
	RankBeginner     Rank = "beginner"
	RankIntermediate Rank = "intermediate"
	RankAdvanced     Rank = "advanced"
	RankProfessional Rank = "professional"
)

func (r Rank) String() string {
	return string(r)
}

func (r Rank) IsValid() bool {
	switch r {
	case RankBeginner, RankIntermediate, RankAdvanced, RankProfessional:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending           Status = "pending"
	StatusWaitingForPlayers Status = "waiting_for_players"
	StatusPendingPayment    Status = "pending_payment"
	StatusConfirmed         Status = "confirmed"
	StatusCancelled         Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusWaitingForPlayers, StatusPendingPayment, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

var (
	modalities = []Modality{ModalityDirect, ModalityMatchmaking}
	gameTypes  = []GameType{GameTypeSingles, GameTypeDoubles}
	ranks      = []Rank{RankBeginner, RankIntermediate, RankAdvanced, RankProfessional}
	statuses   = []Status{StatusPending, StatusWaitingForPlayers, StatusPendingPayment, StatusConfirmed, StatusCancelled}
)

// Accepts "Matchmaking", "matchmaking" and "MATCHMAKING" alike.
func ParseModality(s string) (Modality, error) {
	return parseEnum(s, modalities, ErrInvalidModality)
}

func ParseGameType(s string) (GameType, error) {
	return parseEnum(s, gameTypes, ErrInvalidGameType)
}

func ParseRank(s string) (Rank, error) {
	return parseEnum(s, ranks, ErrInvalidRank)
}

// Accepts both "waiting_for_players" and "WaitingForPlayers".
func ParseStatus(s string) (Status, error) {
	return parseEnum(s, statuses, ErrInvalidStatus)
}

func parseEnum[T ~string](s string, values []T, invalid *errs.Error) (T, error) {
	key := normalize(s)
	for _, v := range values {
		if normalize(string(v)) == key {
			return v, nil
		}
	}
	var zero T
	return zero, invalid.WithMessage(fmt.Sprintf("'%s' is not a valid value", s))
}

func normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
