package booking

import "court-booking/internal/pkg/errs"

var (
	ErrInvalidPeriod    = errs.Coded("InvalidPeriod", "end must be after start", errs.KindValidation)
	ErrInvalidPrice     = errs.Coded("InvalidPrice", "price must be positive", errs.KindValidation)
	ErrCurrencyMismatch = errs.Coded("CurrencyMismatch", "cannot combine prices in different currencies", errs.KindValidation)
	ErrBookingInPast    = errs.Coded("BookingInPast", "booking cannot start in the past", errs.KindValidation)

	ErrOnlyMatchmakingCanAddPlayers = errs.Coded("OnlyMatchmakingCanAddPlayers", "only matchmaking bookings accept additional players", errs.KindConflict)
	ErrBookingNotWaiting            = errs.Coded("BookingNotWaiting", "booking is not waiting for players", errs.KindConflict)
	ErrInvalidPlayerRank            = errs.Coded("InvalidPlayerRank", "player rank does not match the requester rank", errs.KindConflict)
	ErrPlayerAlreadyInBooking       = errs.Coded("PlayerAlreadyInBooking", "player is already part of this booking", errs.KindConflict)

	ErrInvalidModality = errs.Coded("InvalidModality", "unknown modality", errs.KindValidation)
	ErrInvalidGameType = errs.Coded("InvalidGameType", "unknown game type", errs.KindValidation)
	ErrInvalidRank     = errs.Coded("InvalidRank", "unknown player rank", errs.KindValidation)
	ErrInvalidCurrency = errs.Coded("InvalidCurrency", "unsupported currency", errs.KindValidation)
	ErrInvalidStatus   = errs.Coded("InvalidStatus", "unknown booking status", errs.KindValidation)

	// Persisted state that violates an aggregate invariant.
	ErrCorruptBooking = errs.Coded("CorruptBooking", "stored booking is inconsistent", errs.KindInternal)
	// Raised as a panic only: every GameType constant must have a capacity.
	ErrUnknownGameType = errs.Coded("UnknownGameType", "game type has no player capacity", errs.KindInternal)
)
