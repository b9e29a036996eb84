package errs

// Application-level failures shared by the command and query use cases
var (
	ErrBookingNotFound       = Coded("BookingNotFound", "booking not found", KindNotFound)
	ErrNotBookingOwner       = Coded("NotBookingOwner", "only the user who created the booking can do this", KindForbidden)
	ErrConcurrentUpdate      = Coded("ConcurrentUpdate", "booking was modified concurrently, retry the request", KindConflict)
	ErrIdempotencyKeyReused  = Coded("IdempotencyKeyReused", "idempotency key was already used with a different request", KindConflict)
	ErrIdempotencyInProgress = Coded("IdempotencyInProgress", "a request with this idempotency key is still being processed", KindConflict)

	// Operation errors
	ErrDatabaseOperationFailed = Coded("DatabaseError", "database operation failed", KindInternal)
)
