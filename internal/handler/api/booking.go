package api

import (
	"net/http"
	"strconv"

	"court-booking/internal/domain/booking"
	reqdto "court-booking/internal/handler/dto/request"
	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/handler/httperr"
	"court-booking/internal/handler/middleware"
	"court-booking/internal/pkg/patch"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Book a court directly or open a matchmaking game
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID) for safe retries"
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	idempotencyKey, err := parseIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid idempotency key", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToInput(), userID, idempotencyKey)
	if err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	if result.IsReplayed {
		c.Header("Idempotent-Replayed", "true")
	}
	c.Header("Location", "/api/bookings/"+result.BookingID.String())
	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{ID: result.BookingID})
}

// @Summary Get booking
// @Description Get a booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Join booking
// @Description Add the caller as a player of a matchmaking booking
// @Tags bookings
// @Accept json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AddPlayerRequest true "Player rank"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/players [post]
func (h *BookingHandler) AddPlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.AddPlayer(c.Request.Context(), id, req.ToInput(userID)); err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete booking
// @Description Delete own booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	if err := h.cmds.Delete(c.Request.Context(), id, actorID); err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List my bookings
// @Description Bookings the caller created or joined, newest first, with keyset pagination
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	views, next, err := h.q.ListByUser(c.Request.Context(), userID, cursor, parseLimit(c))
	if err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	resp := resdto.BookingListResponse{Bookings: resdto.FromBookingViews(views)}
	if next != nil {
		resp.NextCursor = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List open matches
// @Description Matchmaking bookings still waiting for players of the given rank
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param rank query string true "Player rank"
// @Param game_type query string false "singles or doubles"
// @Param limit query int false "Max items (default 20)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings/open [get]
func (h *BookingHandler) ListOpen(c *gin.Context) {
	rank, err := booking.ParseRank(c.Query("rank"))
	if err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	filter := queries.OpenMatchFilter{Rank: rank}
	if v := c.Query("game_type"); v != "" {
		gameType, err := booking.ParseGameType(v)
		if err != nil {
			httperr.AbortWithCoded(c, err)
			return
		}
		filter.GameType = &gameType
	}
	views, err := h.q.ListOpenMatches(c.Request.Context(), filter, parseLimit(c))
	if err != nil {
		httperr.AbortWithCoded(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.BookingListResponse{Bookings: resdto.FromBookingViews(views)})
}

func parseLimit(c *gin.Context) int {
	var limit *int
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = &iv
		}
	}
	return queries.ValidateLimit(patch.Coalesce(limit, queries.DefaultListLimit))
}

// An absent header disables replay protection.
func parseIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(idempotencyKeyHeader)
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}
