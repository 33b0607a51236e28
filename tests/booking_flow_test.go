package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/pontush81/handbook-backend/internal/booking/http"
	hbHttp "github.com/pontush81/handbook-backend/internal/handbook/http"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
	resHttp "github.com/pontush81/handbook-backend/internal/resource/http"
)

func TestBookingFlowAndCollisions(t *testing.T) {
	clearTables()

	// ==== Setup Users & Tokens ====
	boardAdmin := createTestUser(t, "styrelse@brf.test", "pass", false)
	memberAnna := createTestUser(t, "anna@brf.test", "pass", false)
	memberErik := createTestUser(t, "erik@brf.test", "pass", false)
	stranger := createTestUser(t, "stranger@brf.test", "pass", false)

	adminToken := generateToken(boardAdmin.ID, boardAdmin.Email)
	annaToken := generateToken(memberAnna.ID, memberAnna.Email)
	erikToken := generateToken(memberErik.ID, memberErik.Email)
	strangerToken := generateToken(stranger.ID, stranger.Email)

	// Shared Variables
	var handbookID string
	var resourceID string
	var annaBookingID string

	// Future local day well inside the laundry room's opening hours.
	day := timeutil.ToLocal(time.Now()).AddDate(0, 0, 2)
	at := func(hour int) time.Time {
		return timeutil.LocalDate(day.Year(), day.Month(), day.Day(), hour, 0)
	}

	// ==== Setup Infrastructure (Handbook -> Members -> Resource) ====
	t.Run("Setup Infrastructure", func(t *testing.T) {
		wHB := executeRequest("POST", "/v1/handbooks",
			hbHttp.CreateHandbookBody{Slug: "brf-solhem", Title: "BRF Solhem"}, adminToken)
		require.Equal(t, http.StatusCreated, wHB.Code)
		var hb hbHttp.HandbookResponse
		json.Unmarshal(wHB.Body.Bytes(), &hb)
		handbookID = hb.ID

		for _, uid := range []string{memberAnna.ID, memberErik.ID} {
			wM := executeRequest("POST", fmt.Sprintf("/v1/handbooks/%s/members", handbookID),
				hbHttp.AddMemberBody{UserID: uid, Role: "viewer"}, adminToken)
			require.Equal(t, http.StatusCreated, wM.Code)
		}

		resPayload := resHttp.CreateResourceBody{
			HandbookID:       handbookID,
			Name:             "Tvättstuga",
			Category:         "laundry",
			MaxDurationHours: 4,
			OpenTime:         "08:00",
			CloseTime:        "22:00",
			BookingRules: &resHttp.BookingRulesBody{
				CancellationDeadlineHours: 24,
			},
		}
		wRes := executeRequest("POST", "/v1/resources", resPayload, adminToken)
		require.Equal(t, http.StatusCreated, wRes.Code)
		var res resHttp.ResourceResponse
		json.Unmarshal(wRes.Body.Bytes(), &res)
		resourceID = res.ID
	})

	t.Run("Create Resource: Forbidden For Non-Admin", func(t *testing.T) {
		w := executeRequest("POST", "/v1/resources", resHttp.CreateResourceBody{
			HandbookID: handbookID,
			Name:       "Bastu",
			Category:   "sauna",
		}, annaToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Create Booking: Member Succeeds", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(10),
			EndTime:    at(12),
			Purpose:    "Veckotvätt",
		}, annaToken)
		require.Equal(t, http.StatusCreated, w.Code, "Body: %s", w.Body.String())

		var b bookingHttp.BookingResponse
		json.Unmarshal(w.Body.Bytes(), &b)
		annaBookingID = b.ID
		assert.Equal(t, memberAnna.ID, b.UserID)
		assert.Equal(t, "pending", b.Status)
	})

	t.Run("Create Booking: Stranger Forbidden", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(14),
			EndTime:    at(15),
		}, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Create Booking: Overlap Rejected With Conflict Details", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(11),
			EndTime:    at(13),
		}, erikToken)
		require.Equal(t, http.StatusConflict, w.Code)

		var conflict bookingHttp.ConflictResponse
		json.Unmarshal(w.Body.Bytes(), &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, annaBookingID, conflict.Conflicts[0].BookingID)
		assert.Equal(t, "Veckotvätt", conflict.Conflicts[0].Label)
	})

	t.Run("Create Booking: Touching Interval Accepted", func(t *testing.T) {
		// Starts exactly when Anna's booking ends.
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(12),
			EndTime:    at(14),
		}, erikToken)
		assert.Equal(t, http.StatusCreated, w.Code, "Body: %s", w.Body.String())
	})

	t.Run("Create Booking: Duration Exceeded", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(15),
			EndTime:    at(20),
		}, erikToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Booking: Outside Opening Hours", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(21),
			EndTime:    at(23),
		}, erikToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Calendar: Week Grid Shows Both Bookings", func(t *testing.T) {
		monday := timeutil.StartOfLocalWeek(at(10))
		w := executeRequest("GET",
			fmt.Sprintf("/v1/resources/%s/calendar?week=%s", resourceID, timeutil.ToLocal(monday).Format("2006-01-02")),
			nil, annaToken)
		require.Equal(t, http.StatusOK, w.Code)

		var cal bookingHttp.CalendarResponse
		json.Unmarshal(w.Body.Bytes(), &cal)
		require.Len(t, cal.Days, 7)

		total := 0
		for _, d := range cal.Days {
			total += len(d.Entries)
		}
		assert.Equal(t, 2, total)
	})

	t.Run("Availability: Free Slots Exclude Booked Window", func(t *testing.T) {
		w := executeRequest("GET",
			fmt.Sprintf("/v1/resources/%s/availability?date=%s", resourceID, timeutil.ToLocal(at(10)).Format("2006-01-02")),
			nil, annaToken)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Slots []bookingHttp.SlotResponse `json:"slots"`
		}
		json.Unmarshal(w.Body.Bytes(), &body)
		// 08-10 free, 10-14 booked, 14-22 free.
		require.Len(t, body.Slots, 2)
		assert.Equal(t, at(10).UTC(), body.Slots[0].EndTime)
		assert.Equal(t, at(14).UTC(), body.Slots[1].StartTime)
	})

	t.Run("Reschedule: Into Other Booking Rejected", func(t *testing.T) {
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/reschedule", annaBookingID),
			bookingHttp.RescheduleBookingBody{StartTime: at(13), EndTime: at(15)}, annaToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Reschedule: Shifting Own Booking Succeeds", func(t *testing.T) {
		// Overlaps only Anna's own slot, which must not block the move.
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/reschedule", annaBookingID),
			bookingHttp.RescheduleBookingBody{StartTime: at(9), EndTime: at(11)}, annaToken)
		require.Equal(t, http.StatusOK, w.Code, "Body: %s", w.Body.String())

		var moved bookingHttp.BookingResponse
		json.Unmarshal(w.Body.Bytes(), &moved)
		annaBookingID = moved.ID
		assert.Equal(t, at(9).UTC(), moved.StartTime)
	})

	t.Run("Cancel: Stranger Forbidden", func(t *testing.T) {
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/cancel", annaBookingID), nil, erikToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Cancel: Owner Succeeds Before Deadline", func(t *testing.T) {
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/cancel", annaBookingID), nil, annaToken)
		require.Equal(t, http.StatusOK, w.Code, "Body: %s", w.Body.String())

		var cancelled bookingHttp.BookingResponse
		json.Unmarshal(w.Body.Bytes(), &cancelled)
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("Create Booking: Cancelled Slot Is Free Again", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			ResourceID: resourceID,
			StartTime:  at(9),
			EndTime:    at(11),
		}, erikToken)
		assert.Equal(t, http.StatusCreated, w.Code, "Body: %s", w.Body.String())
	})

	t.Run("Delete Booking: Admin Only", func(t *testing.T) {
		wDenied := executeRequest("DELETE", fmt.Sprintf("/v1/bookings/%s", annaBookingID), nil, erikToken)
		assert.Equal(t, http.StatusForbidden, wDenied.Code)

		wOK := executeRequest("DELETE", fmt.Sprintf("/v1/bookings/%s", annaBookingID), nil, adminToken)
		assert.Equal(t, http.StatusNoContent, wOK.Code)
	})
}

func TestBookingBlockedAfterTrialExpiry(t *testing.T) {
	clearTables()

	owner := createTestUser(t, "owner@expired.test", "pass", false)
	ownerToken := generateToken(owner.ID, owner.Email)

	wHB := executeRequest("POST", "/v1/handbooks",
		hbHttp.CreateHandbookBody{Slug: "brf-expired", Title: "BRF Expired"}, ownerToken)
	require.Equal(t, http.StatusCreated, wHB.Code)
	var hb hbHttp.HandbookResponse
	json.Unmarshal(wHB.Body.Bytes(), &hb)

	wRes := executeRequest("POST", "/v1/resources", resHttp.CreateResourceBody{
		HandbookID: hb.ID,
		Name:       "Gästlägenhet",
		Category:   "guest_apartment",
	}, ownerToken)
	require.Equal(t, http.StatusCreated, wRes.Code)
	var res resHttp.ResourceResponse
	json.Unmarshal(wRes.Body.Bytes(), &res)

	// Expire the trial directly in the database.
	_, err := testPool.Exec(context.Background(),
		"UPDATE public.handbooks SET trial_ends_at = now() - interval '1 day' WHERE id = $1", hb.ID)
	require.NoError(t, err)

	day := timeutil.ToLocal(time.Now()).AddDate(0, 0, 2)
	start := timeutil.LocalDate(day.Year(), day.Month(), day.Day(), 10, 0)

	w := executeRequest("POST", "/v1/bookings", bookingHttp.CreateBookingBody{
		ResourceID: res.ID,
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
	}, ownerToken)
	assert.Equal(t, http.StatusPaymentRequired, w.Code, "Body: %s", w.Body.String())
}
