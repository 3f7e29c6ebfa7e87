package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/availability"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

const datetimeLayout = "2006-01-02 15:04:05"

// ReservationHandler books, reschedules and lists table reservations.
// Booking and rescheduling run inside a transaction that locks the
// table row so two concurrent requests cannot both pass the overlap
// check.
type ReservationHandler struct {
	ReservationRepo *repository.ReservationRepo
	TableRepo       *repository.TableRepo
	OrderRepo       *repository.OrderRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(reservationRepo *repository.ReservationRepo, tableRepo *repository.TableRepo, orderRepo *repository.OrderRepo) *ReservationHandler {
	if reservationRepo == nil || tableRepo == nil || orderRepo == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{
		ReservationRepo: reservationRepo,
		TableRepo:       tableRepo,
		OrderRepo:       orderRepo,
	}
}

type reservationBody struct {
	OrderID        uint64 `json:"order_id"`
	StartReserve   string `json:"start_reserve"`
	FinishReserve  string `json:"finish_reserve"`
	AssignedChairs uint32 `json:"assigned_chairs"`
}

type reservationView struct {
	ID             uint64 `json:"id"`
	OrderID        uint64 `json:"order_id"`
	TableID        uint64 `json:"table_id"`
	StartReserve   string `json:"start_reserve"`
	FinishReserve  string `json:"finish_reserve"`
	AssignedChairs uint32 `json:"assigned_chairs"`
	OrderStatus    string `json:"order_status"`
}

func viewReservation(r *model.Reservation) reservationView {
	return reservationView{
		ID:             r.ID,
		OrderID:        r.OrderID,
		TableID:        r.TableID,
		StartReserve:   r.StartReserve.UTC().Format(datetimeLayout),
		FinishReserve:  r.FinishReserve.UTC().Format(datetimeLayout),
		AssignedChairs: r.AssignedChairs,
		OrderStatus:    r.OrderStatus,
	}
}

func parseInterval(body *reservationBody) (start, finish time.Time, err error) {
	start, err = time.ParseInLocation(datetimeLayout, body.StartReserve, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_reserve must be formatted YYYY-MM-DD HH:MM:SS")
	}
	finish, err = time.ParseInLocation(datetimeLayout, body.FinishReserve, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("finish_reserve must be formatted YYYY-MM-DD HH:MM:SS")
	}
	return start, finish, nil
}

// Create handles POST /v1/tables/:id/reservations.  The table row is
// locked before the overlap check so the check-then-insert pair is
// atomic under concurrent bookings.
func (h *ReservationHandler) Create(c echo.Context) error {
	tableID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}
	start, finish, err := parseInterval(&body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	table, err := h.TableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !table.IsActive {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "table is not active"})
	}
	order, err := h.OrderRepo.GetByID(ctx, body.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if order.Status == model.OrderStatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is cancelled"})
	}
	if err := availability.ValidateInterval(start, finish); err != nil {
		status, msg := availabilityStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	if err := availability.ValidateChairs(table, body.AssignedChairs); err != nil {
		status, msg := availabilityStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}

	reservation := model.Reservation{
		OrderID:        body.OrderID,
		TableID:        tableID,
		StartReserve:   start,
		FinishReserve:  finish,
		AssignedChairs: body.AssignedChairs,
	}
	if status, msg := h.bookTx(ctx, &reservation, 0); status != 0 {
		return c.JSON(status, echo.Map{"error": msg})
	}

	go publishBooked(&reservation, order.RestaurantID)
	return c.JSON(http.StatusCreated, viewReservation(&reservation))
}

// Reschedule handles PATCH /v1/reservations/:id.  Only the interval
// and chair count can change; the overlap check excludes the
// reservation itself.
func (h *ReservationHandler) Reschedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	existing, err := h.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if existing.OrderStatus == model.OrderStatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is cancelled"})
	}
	var body struct {
		StartReserve   *string `json:"start_reserve"`
		FinishReserve  *string `json:"finish_reserve"`
		AssignedChairs *uint32 `json:"assigned_chairs"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, finish := existing.StartReserve, existing.FinishReserve
	if body.StartReserve != nil {
		if start, err = time.ParseInLocation(datetimeLayout, *body.StartReserve, time.UTC); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_reserve must be formatted YYYY-MM-DD HH:MM:SS"})
		}
	}
	if body.FinishReserve != nil {
		if finish, err = time.ParseInLocation(datetimeLayout, *body.FinishReserve, time.UTC); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "finish_reserve must be formatted YYYY-MM-DD HH:MM:SS"})
		}
	}
	chairs := existing.AssignedChairs
	if body.AssignedChairs != nil {
		chairs = *body.AssignedChairs
	}
	table, err := h.TableRepo.GetByID(ctx, existing.TableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := availability.ValidateInterval(start, finish); err != nil {
		status, msg := availabilityStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	if err := availability.ValidateChairs(table, chairs); err != nil {
		status, msg := availabilityStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}

	existing.StartReserve = start
	existing.FinishReserve = finish
	existing.AssignedChairs = chairs
	if status, msg := h.rescheduleTx(ctx, existing); status != 0 {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, viewReservation(existing))
}

// bookTx runs the lock/check/insert sequence in one transaction.  It
// returns a zero status on success, otherwise the HTTP status and
// message to send.
func (h *ReservationHandler) bookTx(ctx context.Context, reservation *model.Reservation, excludeID uint64) (int, string) {
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return http.StatusInternalServerError, "failed to start transaction"
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.TableRepo.LockTx(ctx, tx, reservation.TableID); err != nil {
		return http.StatusInternalServerError, "failed to lock table"
	}
	existing, err := h.ReservationRepo.ActiveByTableTx(ctx, tx, reservation.TableID)
	if err != nil {
		return http.StatusInternalServerError, "failed to check existing reservations"
	}
	if hit := availability.Conflict(existing, reservation.StartReserve, reservation.FinishReserve, excludeID); hit != nil {
		overlap := availability.OverlapError{TableID: reservation.TableID, Start: hit.StartReserve, Finish: hit.FinishReserve}
		return http.StatusConflict, overlap.Error()
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, reservation); err != nil {
		return http.StatusInternalServerError, "failed to create reservation"
	}
	if err := tx.Commit(); err != nil {
		return http.StatusInternalServerError, "failed to commit transaction"
	}
	committed = true
	return 0, ""
}

func (h *ReservationHandler) rescheduleTx(ctx context.Context, reservation *model.Reservation) (int, string) {
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return http.StatusInternalServerError, "failed to start transaction"
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.TableRepo.LockTx(ctx, tx, reservation.TableID); err != nil {
		return http.StatusInternalServerError, "failed to lock table"
	}
	existing, err := h.ReservationRepo.ActiveByTableTx(ctx, tx, reservation.TableID)
	if err != nil {
		return http.StatusInternalServerError, "failed to check existing reservations"
	}
	if hit := availability.Conflict(existing, reservation.StartReserve, reservation.FinishReserve, reservation.ID); hit != nil {
		overlap := availability.OverlapError{TableID: reservation.TableID, Start: hit.StartReserve, Finish: hit.FinishReserve}
		return http.StatusConflict, overlap.Error()
	}
	if err := h.ReservationRepo.UpdateTx(ctx, tx, reservation); err != nil {
		return http.StatusInternalServerError, "failed to update reservation"
	}
	if err := tx.Commit(); err != nil {
		return http.StatusInternalServerError, "failed to commit transaction"
	}
	committed = true
	return 0, ""
}

// publishBooked sends the booked event on a best-effort basis.  A
// broker outage must never fail a committed booking.
func publishBooked(r *model.Reservation, restaurantID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	event := queue.ReservationBookedEvent{
		ReservationID: r.ID,
		OrderID:       r.OrderID,
		TableID:       r.TableID,
		RestaurantID:  restaurantID,
		StartReserve:  r.StartReserve,
		FinishReserve: r.FinishReserve,
		Chairs:        r.AssignedChairs,
		BookedAt:      time.Now().UTC(),
	}
	if err := publisher.PublishReservationBooked(ctx, event); err != nil {
		log.Printf("reservation %d booked but event publish failed: %v", r.ID, err)
	}
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	reservation, err := h.ReservationRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewReservation(reservation))
}

// ListByTable handles GET /v1/tables/:id/reservations with an optional
// day filter.  Voided reservations are included so staff can audit the
// table's history.
func (h *ReservationHandler) ListByTable(c echo.Context) error {
	tableID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.TableRepo.GetByID(c.Request().Context(), tableID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	reservations, err := h.ReservationRepo.ListByTable(c.Request().Context(), tableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var onDay *time.Time
	if raw := c.QueryParam("day"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be formatted YYYY-MM-DD"})
		}
		onDay = &day
	}
	views := make([]reservationView, 0, len(reservations))
	for i := range reservations {
		if onDay != nil {
			started := reservations[i].StartReserve.UTC()
			if !started.Truncate(24 * time.Hour).Equal(*onDay) {
				continue
			}
		}
		views = append(views, viewReservation(&reservations[i]))
	}
	return c.JSON(http.StatusOK, views)
}

// Delete handles DELETE /v1/reservations/:id.  Hard deletion is an
// admin escape hatch; normal voiding goes through order cancellation.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ReservationRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
