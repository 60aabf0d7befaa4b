package appointment_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/infra/memstore"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
	uc "github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
)

const branchID uint = 1

// Monday 2025-03-10, 10:00 business time.
var monday10 = time.Date(2025, time.March, 10, 10, 0, 0, 0, timezone.Location(timezone.DefaultTimezone))

type AppointmentSuite struct {
	suite.Suite

	ctx   context.Context
	store *memstore.Store
	clock *timezone.FixedClock
	audit *audit.Dispatcher

	create     *uc.CreateAppointment
	get        *uc.GetAppointment
	list       *uc.ListAppointments
	update     *uc.UpdateAppointment
	cancel     *uc.CancelAppointment
	delete     *uc.DeleteAppointment
	stats      *uc.ComputeStatistics
	check      *uc.CheckAvailability
	day        *uc.GetAvailability
	reconciler *uc.ReconcilePastAppointments

	client   models.Client
	other    models.Client
	pet      models.Pet
	otherPet models.Pet
	service  models.Service
	inactive models.Service
	admin    uc.Caller
	asClient uc.Caller
	asOther  uc.Caller
}

func TestAppointmentSuite(t *testing.T) {
	suite.Run(t, new(AppointmentSuite))
}

func (s *AppointmentSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.store.SeedDefaults(branchID)
	// Monday 09:00-17:00
	s.store.AddOperatingHours(models.OperatingHours{
		BranchID: branchID, Weekday: 1,
		Start: types.NewClock(9, 0), End: types.NewClock(17, 0), Active: true,
	})

	s.clock = timezone.NewFixedClock(monday10)
	s.audit = audit.NewDispatcher(s.store, zap.NewNop())

	s.client = s.store.AddClient(models.Client{Name: "Ana López"})
	s.other = s.store.AddClient(models.Client{Name: "Luis Pérez"})
	s.pet = s.store.AddPet(models.Pet{ClientID: s.client.ID, Name: "Firulais", Species: "perro"})
	s.otherPet = s.store.AddPet(models.Pet{ClientID: s.other.ID, Name: "Michi", Species: "gato"})
	s.service = s.store.AddService(models.Service{Name: "Baño express", Price: 80, DurationMin: 60, Active: true})
	s.inactive = s.store.AddService(models.Service{Name: "Spa", Price: 300, DurationMin: 90})

	s.admin = uc.AdminCaller()
	s.asClient = uc.ClientCaller(s.client.ID)
	s.asOther = uc.ClientCaller(s.other.ID)

	evaluator := calendar.NewEvaluator(s.store)
	s.create = uc.NewCreateAppointment(s.store, s.store, evaluator, s.audit, nil, branchID)
	s.get = uc.NewGetAppointment(s.store)
	s.list = uc.NewListAppointments(s.store, s.clock)
	s.update = uc.NewUpdateAppointment(s.store, s.store, evaluator, s.clock, s.audit, nil)
	s.cancel = uc.NewCancelAppointment(s.update)
	s.delete = uc.NewDeleteAppointment(s.store, s.audit)
	s.stats = uc.NewComputeStatistics(s.store, s.clock)
	s.check = uc.NewCheckAvailability(s.store, evaluator)
	s.day = uc.NewGetAvailability(s.store, s.store, evaluator, s.clock, 30)
	s.reconciler = uc.NewReconcilePastAppointments(s.store, s.clock, s.audit)
}

func (s *AppointmentSuite) TearDownTest() {
	s.audit.Close()
}

func (s *AppointmentSuite) book(caller uc.Caller, date, at string) *models.Appointment {
	ap, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller:    caller,
		ClientID:  s.client.ID,
		PetID:     s.pet.ID,
		ServiceID: s.service.ID,
		Date:      date,
		Time:      at,
	})
	s.Require().NoError(err)
	return ap
}

func (s *AppointmentSuite) past(status domain.Status, date types.Date, at types.Clock) models.Appointment {
	return s.store.PutAppointment(models.Appointment{
		Date:      date,
		Time:      at,
		Status:    string(status),
		ClientID:  s.client.ID,
		PetID:     s.pet.ID,
		ServiceID: s.service.ID,
		BranchID:  branchID,
	})
}

func strPtr(s string) *string { return &s }

func kindOf(err error) httperr.Kind { return httperr.KindOf(err) }

// ======================================================
// Create / Get
// ======================================================

func (s *AppointmentSuite) TestCreateThenGetRoundTrip() {
	notes := "  primera visita "
	ap, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller:    s.asClient,
		PetID:     s.pet.ID,
		ServiceID: s.service.ID,
		Date:      "2025-03-17",
		Time:      "10:00",
		Notes:     &notes,
	})
	s.Require().NoError(err)

	got, err := s.get.Execute(s.ctx, s.asClient, ap.ID)
	s.Require().NoError(err)

	s.Equal(types.NewDate(2025, time.March, 17), got.Date)
	s.Equal(types.NewClock(10, 0), got.Time)
	s.Equal(string(domain.StatusPending), got.Status)
	s.Equal(s.client.ID, got.ClientID)
	s.Equal(s.pet.ID, got.PetID)
	s.Equal(s.service.ID, got.ServiceID)
	s.Equal(branchID, got.BranchID)
	s.Require().NotNil(got.Notes)
	s.Equal("primera visita", *got.Notes)

	s.audit.Close()
	events := s.store.AuditEvents()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionAppointmentCreated, events[0].Action)
	s.Equal(string(domain.ActorClient), events[0].Actor)
}

// Scenario 1: Monday 09:00-17:00, booking at 10:00.
func (s *AppointmentSuite) TestCreateInsideOperatingHours() {
	res, err := s.check.Execute(s.ctx, branchID, "2025-03-17", "10:00")
	s.Require().NoError(err)
	s.True(res.Available)

	s.book(s.asClient, "2025-03-17", "10:00")
}

// Scenario 2: a non-working day blocks every time of that date.
func (s *AppointmentSuite) TestCreateOnNonWorkingDay() {
	s.Require().NoError(s.store.CreateNonWorkingDay(s.ctx, &models.NonWorkingDay{
		Date:        types.NewDate(2025, time.March, 17),
		Description: "Feriado",
	}))

	for _, at := range []string{"09:00", "10:00", "16:59"} {
		_, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
			Caller: s.asClient, PetID: s.pet.ID, ServiceID: s.service.ID,
			Date: "2025-03-17", Time: at,
		})
		be, ok := httperr.As(err)
		s.Require().True(ok, at)
		s.Equal(httperr.KindSlotUnavailable, be.Kind)
		s.Equal(calendar.ReasonNonWorkingDay, be.Reason)
	}
}

// Scenario 5: special hours replace the weekly schedule.
func (s *AppointmentSuite) TestCreateOutsideSpecialHours() {
	s.Require().NoError(s.store.CreateSpecialHours(s.ctx, &models.SpecialHours{
		BranchID: branchID,
		Date:     types.NewDate(2025, time.December, 24),
		Start:    types.NewClock(9, 0),
		End:      types.NewClock(13, 0),
	}))

	_, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller: s.asClient, PetID: s.pet.ID, ServiceID: s.service.ID,
		Date: "2025-12-24", Time: "14:00",
	})
	be, ok := httperr.As(err)
	s.Require().True(ok)
	s.Equal(httperr.KindSlotUnavailable, be.Kind)
	s.Equal(calendar.ReasonOutsideSpecialHours, be.Reason)
}

func (s *AppointmentSuite) TestCreateRejectsTakenSlot() {
	s.book(s.asClient, "2025-03-17", "10:00")

	_, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller: s.admin, ClientID: s.other.ID, PetID: s.otherPet.ID, ServiceID: s.service.ID,
		Date: "2025-03-17", Time: "10:00",
	})
	be, ok := httperr.As(err)
	s.Require().True(ok)
	s.Equal(uc.ReasonSlotTaken, be.Reason)
}

// racingStore hides existing bookings from the pre-check, as a concurrent
// request would see them.
type racingStore struct {
	*memstore.Store
}

func (racingStore) HasActiveAppointmentAt(context.Context, uint, types.Date, types.Clock, uint) (bool, error) {
	return false, nil
}

func (s *AppointmentSuite) TestLostBookingRaceReportsTakenSlot() {
	s.book(s.asClient, "2025-03-17", "11:00")

	racing := racingStore{s.store}
	create := uc.NewCreateAppointment(racing, s.store, calendar.NewEvaluator(s.store), s.audit, nil, branchID)
	_, err := create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller:    s.admin,
		ClientID:  s.client.ID,
		PetID:     s.pet.ID,
		ServiceID: s.service.ID,
		Date:      "2025-03-17",
		Time:      "11:00",
	})
	s.Require().Error(err)
	be, ok := httperr.As(err)
	s.Require().True(ok)
	s.Equal(httperr.KindSlotUnavailable, be.Kind)
	s.Equal(uc.ReasonSlotTaken, be.Reason)
}

// interleavedStore runs another writer between the read and the write of
// an update.
type interleavedStore struct {
	*memstore.Store
	between func(ap models.Appointment)
}

func (st interleavedStore) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := st.Store.GetAppointment(ctx, id)
	if err == nil && st.between != nil {
		st.between(*ap)
	}
	return ap, err
}

func (s *AppointmentSuite) updateOver(repo domain.Repository) *uc.UpdateAppointment {
	return uc.NewUpdateAppointment(repo, s.store, calendar.NewEvaluator(s.store), s.clock, s.audit, nil)
}

func (s *AppointmentSuite) TestUpdateDoesNotUndoReconcile() {
	yesterday := s.past(domain.StatusPending, types.NewDate(2025, time.March, 9), types.NewClock(15, 0))

	update := s.updateOver(interleavedStore{Store: s.store, between: func(models.Appointment) {
		_, err := s.reconciler.Execute(s.ctx)
		s.Require().NoError(err)
	}})

	_, err := update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.asClient,
		ID:     yesterday.ID,
		Notes:  strPtr("llevar correa"),
	})
	s.Require().Error(err)
	be, ok := httperr.As(err)
	s.Require().True(ok)
	s.Equal(httperr.KindInvalidTransition, be.Kind)
	s.Equal(string(domain.StatusCompleted), be.From)

	got, err := s.get.Execute(s.ctx, s.admin, yesterday.ID)
	s.Require().NoError(err)
	s.Equal(string(domain.StatusCompleted), got.Status)
	s.NotNil(got.CompletedAt)
	s.Nil(got.Notes)
}

func (s *AppointmentSuite) TestClientCancelLosesToAdminConfirm() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")

	update := s.updateOver(interleavedStore{Store: s.store, between: func(read models.Appointment) {
		read.Status = string(domain.StatusConfirmed)
		s.Require().NoError(s.store.UpdateAppointment(s.ctx, &read, domain.StatusPending))
	}})

	_, err := uc.NewCancelAppointment(update).Execute(s.ctx, s.asClient, ap.ID)
	s.Require().Error(err)
	be, ok := httperr.As(err)
	s.Require().True(ok)
	s.Equal(httperr.KindInvalidTransition, be.Kind)
	s.Equal(string(domain.StatusConfirmed), be.From)
	s.Equal(string(domain.StatusCancelled), be.To)

	got, err := s.get.Execute(s.ctx, s.admin, ap.ID)
	s.Require().NoError(err)
	s.Equal(string(domain.StatusConfirmed), got.Status)
}

func (s *AppointmentSuite) TestConcurrentReconcileCompletesEachRowOnce() {
	const lapsed = 12
	for i := 0; i < lapsed; i++ {
		s.past(domain.StatusPending, types.NewDate(2025, time.March, 1+i%9), types.NewClock(8+i, 0))
	}
	s.past(domain.StatusPending, types.NewDate(2025, time.March, 20), types.NewClock(9, 0))

	var (
		wg    sync.WaitGroup
		total atomic.Int64
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.reconciler.Execute(s.ctx)
			if err == nil {
				total.Add(res.UpdatedCount)
			}
		}()
	}
	wg.Wait()

	s.Equal(int64(lapsed), total.Load())
}

func (s *AppointmentSuite) TestCreateValidation() {
	cases := []struct {
		name string
		in   uc.CreateAppointmentInput
		kind httperr.Kind
		code string
	}{
		{
			name: "missing pet",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, ServiceID: s.service.ID, Date: "2025-03-17", Time: "10:00"},
			kind: httperr.KindValidation, code: "invalid_mascota_id",
		},
		{
			name: "bad date",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, PetID: s.pet.ID, ServiceID: s.service.ID, Date: "17/03/2025", Time: "10:00"},
			kind: httperr.KindValidation, code: "invalid_fecha",
		},
		{
			name: "bad time",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, PetID: s.pet.ID, ServiceID: s.service.ID, Date: "2025-03-17", Time: "25:00"},
			kind: httperr.KindValidation, code: "invalid_hora",
		},
		{
			name: "pet of another client",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, PetID: s.otherPet.ID, ServiceID: s.service.ID, Date: "2025-03-17", Time: "10:00"},
			kind: httperr.KindValidation, code: "invalid_mascota_id",
		},
		{
			name: "inactive service",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, PetID: s.pet.ID, ServiceID: s.inactive.ID, Date: "2025-03-17", Time: "10:00"},
			kind: httperr.KindValidation, code: "invalid_servicio_id",
		},
		{
			name: "unknown service",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, PetID: s.pet.ID, ServiceID: 9999, Date: "2025-03-17", Time: "10:00"},
			kind: httperr.KindNotFound,
		},
		{
			name: "client booking for someone else",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, ClientID: s.other.ID, PetID: s.otherPet.ID, ServiceID: s.service.ID, Date: "2025-03-17", Time: "10:00"},
			kind: httperr.KindNotFound,
		},
		{
			name: "client booking as confirmed",
			in:   uc.CreateAppointmentInput{Caller: s.asClient, PetID: s.pet.ID, ServiceID: s.service.ID, Date: "2025-03-17", Time: "10:00", Status: "confirmada"},
			kind: httperr.KindInvalidTransition,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.create.Execute(s.ctx, tc.in)
			s.Require().Error(err)
			s.Equal(tc.kind, kindOf(err))
			if tc.code != "" {
				s.True(httperr.IsBusiness(err, tc.code), err.Error())
			}
		})
	}

	all, err := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.admin})
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *AppointmentSuite) TestAdminCanCreateConfirmed() {
	ap, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller: s.admin, ClientID: s.client.ID, PetID: s.pet.ID, ServiceID: s.service.ID,
		Date: "2025-03-17", Time: "11:00", Status: "confirmada",
	})
	s.Require().NoError(err)
	s.Equal(string(domain.StatusConfirmed), ap.Status)
}

func (s *AppointmentSuite) TestStoreFailureSurfacesAsStoreError() {
	s.store.SetError(errors.New("connection reset"))
	defer s.store.SetError(nil)

	_, err := s.get.Execute(s.ctx, s.admin, 1)
	s.Equal(httperr.KindStore, kindOf(err))
}

// ======================================================
// Ownership
// ======================================================

func (s *AppointmentSuite) TestClientCannotSeeOthersAppointments() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")

	_, err := s.get.Execute(s.ctx, s.asOther, ap.ID)
	s.Equal(httperr.KindNotFound, kindOf(err))

	_, err = s.cancel.Execute(s.ctx, s.asOther, ap.ID)
	s.Equal(httperr.KindNotFound, kindOf(err))

	list, err := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.asOther})
	s.Require().NoError(err)
	s.Empty(list)

	err = s.delete.Execute(s.ctx, s.asClient, ap.ID)
	s.Equal(httperr.KindNotFound, kindOf(err))
}

// ======================================================
// Update / Cancel / Delete
// ======================================================

// Scenario 4: confirmed appointments keep their slot, but an admin can
// still cancel them.
func (s *AppointmentSuite) TestConfirmedAppointmentIsLocked() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")

	_, err := s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.admin, ID: ap.ID, Status: strPtr("confirmada"),
	})
	s.Require().NoError(err)

	_, err = s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.asClient, ID: ap.ID, Date: strPtr("2025-03-18"),
	})
	s.Equal(httperr.KindInvalidTransition, kindOf(err))

	got, err := s.get.Execute(s.ctx, s.admin, ap.ID)
	s.Require().NoError(err)
	s.Equal(types.NewDate(2025, time.March, 17), got.Date)

	cancelled, err := s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.admin, ID: ap.ID, Status: strPtr("cancelada"),
	})
	s.Require().NoError(err)
	s.Equal(string(domain.StatusCancelled), cancelled.Status)
	s.NotNil(cancelled.CancelledAt)
}

func (s *AppointmentSuite) TestClientCannotCancelConfirmed() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")
	_, err := s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.admin, ID: ap.ID, Status: strPtr("confirmada"),
	})
	s.Require().NoError(err)

	_, err = s.cancel.Execute(s.ctx, s.asClient, ap.ID)
	be, ok := httperr.As(err)
	s.Require().True(ok)
	s.Equal(httperr.KindInvalidTransition, be.Kind)
	s.Equal("confirmada", be.From)
	s.Equal("cancelada", be.To)

	got, _ := s.get.Execute(s.ctx, s.admin, ap.ID)
	s.Equal(string(domain.StatusConfirmed), got.Status)
}

func (s *AppointmentSuite) TestRescheduleRevalidatesOnlyWhenSlotChanges() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")

	// the day becomes a holiday after booking; unrelated edits still work
	s.Require().NoError(s.store.CreateNonWorkingDay(s.ctx, &models.NonWorkingDay{
		Date: types.NewDate(2025, time.March, 17),
	}))

	updated, err := s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.asClient, ID: ap.ID, Notes: strPtr("trae vacunas"), Date: strPtr("2025-03-17"),
	})
	s.Require().NoError(err)
	s.Equal("trae vacunas", *updated.Notes)

	_, err = s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.asClient, ID: ap.ID, Time: strPtr("11:00"),
	})
	s.Equal(httperr.KindSlotUnavailable, kindOf(err))

	moved, err := s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.asClient, ID: ap.ID, Date: strPtr("2025-03-18"), Time: strPtr("09:00"),
	})
	s.Require().NoError(err)
	s.Equal(types.NewDate(2025, time.March, 18), moved.Date)
	s.Equal(types.NewClock(9, 0), moved.Time)
}

func (s *AppointmentSuite) TestRescheduleIgnoresItsOwnSlot() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")

	_, err := s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.asClient, ID: ap.ID, Date: strPtr("2025-03-17"), Time: strPtr("10:00"),
	})
	s.NoError(err)
}

func (s *AppointmentSuite) TestTerminalAcceptsOnlyNoOps() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")
	_, err := s.cancel.Execute(s.ctx, s.asClient, ap.ID)
	s.Require().NoError(err)

	again, err := s.cancel.Execute(s.ctx, s.asClient, ap.ID)
	s.Require().NoError(err)
	s.Equal(string(domain.StatusCancelled), again.Status)

	_, err = s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.admin, ID: ap.ID, Status: strPtr("pendiente"),
	})
	s.Equal(httperr.KindInvalidTransition, kindOf(err))

	_, err = s.update.Execute(s.ctx, uc.UpdateAppointmentInput{
		Caller: s.admin, ID: ap.ID, Time: strPtr("12:00"),
	})
	s.True(httperr.IsBusiness(err, "field_locked"))
}

func (s *AppointmentSuite) TestCancelledSlotCanBeRebooked() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")
	_, err := s.cancel.Execute(s.ctx, s.asClient, ap.ID)
	s.Require().NoError(err)

	s.book(s.asClient, "2025-03-17", "10:00")
}

func (s *AppointmentSuite) TestDeleteIsAdminOnlyAndFinal() {
	ap := s.book(s.asClient, "2025-03-17", "10:00")

	s.Require().NoError(s.delete.Execute(s.ctx, s.admin, ap.ID))

	_, err := s.get.Execute(s.ctx, s.admin, ap.ID)
	s.Equal(httperr.KindNotFound, kindOf(err))

	err = s.delete.Execute(s.ctx, s.admin, ap.ID)
	s.Equal(httperr.KindNotFound, kindOf(err))
}

// ======================================================
// Listing
// ======================================================

func (s *AppointmentSuite) TestListOrdering() {
	s.book(s.asClient, "2025-03-17", "10:00")
	s.book(s.asClient, "2025-03-18", "09:00")
	s.book(s.asClient, "2025-03-17", "09:00")
	s.past(domain.StatusPending, types.NewDate(2025, time.March, 3), types.NewClock(9, 0))

	all, err := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.asClient})
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal("2025-03-18", all[0].Date.String())
	s.Equal("2025-03-17 10:00", all[1].Date.String()+" "+all[1].Time.String())
	s.Equal("2025-03-17 09:00", all[2].Date.String()+" "+all[2].Time.String())
	s.Equal("2025-03-03", all[3].Date.String())
	s.Equal("Firulais", all[0].PetName)
	s.Equal("Ana López", all[0].ClientName)

	upcoming, err := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.asClient, Upcoming: true})
	s.Require().NoError(err)
	s.Require().Len(upcoming, 3)
	s.Equal("2025-03-17 09:00", upcoming[0].Date.String()+" "+upcoming[0].Time.String())
	s.Equal("2025-03-18", upcoming[2].Date.String())

	byDate, err := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.admin, Date: "2025-03-17"})
	s.Require().NoError(err)
	s.Len(byDate, 2)

	_, err = s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.admin, Status: "perdida"})
	s.Equal(httperr.KindValidation, kindOf(err))
}

// ======================================================
// Reconciliation
// ======================================================

// Scenario 3 plus idempotence.
func (s *AppointmentSuite) TestReconcileCompletesPastAppointments() {
	yesterday := s.past(domain.StatusPending, types.NewDate(2025, time.March, 9), types.NewClock(15, 0))
	earlier := s.past(domain.StatusConfirmed, types.NewDate(2025, time.March, 10), types.NewClock(10, 0))
	later := s.past(domain.StatusPending, types.NewDate(2025, time.March, 10), types.NewClock(10, 1))
	cancelled := s.past(domain.StatusCancelled, types.NewDate(2025, time.March, 1), types.NewClock(9, 0))

	res, err := s.reconciler.Execute(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), res.UpdatedCount)

	for id, want := range map[uint]domain.Status{
		yesterday.ID: domain.StatusCompleted,
		earlier.ID:   domain.StatusCompleted,
		later.ID:     domain.StatusPending,
		cancelled.ID: domain.StatusCancelled,
	} {
		got, err := s.get.Execute(s.ctx, s.admin, id)
		s.Require().NoError(err)
		s.Equal(string(want), got.Status, "appointment %d", id)
	}

	res, err = s.reconciler.Execute(s.ctx)
	s.Require().NoError(err)
	s.Zero(res.UpdatedCount)

	// no active appointment is left in the past
	s.clock.Advance(2 * time.Minute)
	_, err = s.reconciler.Execute(s.ctx)
	s.Require().NoError(err)
	all, err := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.admin})
	s.Require().NoError(err)
	today, now := timezone.Today(s.clock)
	for _, ap := range all {
		if domain.Status(ap.Status).Active() {
			s.False(domain.MomentPassed(ap.Date, ap.Time, today, now), "id %d", ap.ID)
		}
	}
}

func (s *AppointmentSuite) TestReconcileReportsStoreErrors() {
	s.past(domain.StatusPending, types.NewDate(2025, time.March, 9), types.NewClock(15, 0))
	s.store.SetError(errors.New("timeout"))

	_, err := s.reconciler.Execute(s.ctx)
	s.Equal(httperr.KindStore, kindOf(err))

	s.store.SetError(nil)
	all, _ := s.list.Execute(s.ctx, uc.ListAppointmentsInput{Caller: s.admin})
	s.Require().Len(all, 1)
	s.Equal(string(domain.StatusPending), all[0].Status)
}

// ======================================================
// Statistics / availability
// ======================================================

func (s *AppointmentSuite) TestStatistics() {
	s.past(domain.StatusCompleted, types.NewDate(2025, time.February, 20), types.NewClock(9, 0))
	s.past(domain.StatusPending, types.NewDate(2025, time.March, 10), types.NewClock(16, 0))
	s.book(s.asClient, "2025-03-17", "10:00")
	_, err := s.create.Execute(s.ctx, uc.CreateAppointmentInput{
		Caller: s.admin, ClientID: s.other.ID, PetID: s.otherPet.ID, ServiceID: s.service.ID,
		Date: "2025-03-17", Time: "11:00",
	})
	s.Require().NoError(err)

	st, err := s.stats.Execute(s.ctx, s.admin, nil)
	s.Require().NoError(err)
	s.Equal(int64(4), st.Total)
	s.Equal(int64(3), st.ByStatus["pendiente"])
	s.Equal(int64(1), st.ByStatus["completada"])
	s.Equal(int64(0), st.ByStatus["cancelada"])
	s.Contains(st.ByStatus, "confirmada")
	s.Equal(int64(1), st.ByPeriod.Past)
	s.Equal(int64(1), st.ByPeriod.Today)
	s.Equal(int64(2), st.ByPeriod.Upcoming)
	s.Require().Len(st.ByMonth, 2)
	s.Equal("2025-02", st.ByMonth[0].Month)
	s.Equal(int64(3), st.ByMonth[1].Count)

	own, err := s.stats.Execute(s.ctx, s.asOther, nil)
	s.Require().NoError(err)
	s.Equal(int64(1), own.Total)
}

func (s *AppointmentSuite) TestDayScheduleSkipsTakenAndPastTimes() {
	s.book(s.asClient, "2025-03-10", "11:00")

	day, err := s.day.Execute(s.ctx, branchID, "2025-03-10", &s.service.ID)
	s.Require().NoError(err)
	s.True(day.Open)
	s.Equal(string(calendar.RuleOperatingHours), day.Rule)
	s.Equal(60, day.Step)

	var got []string
	for _, t := range day.Slots {
		got = append(got, t.String())
	}
	// 09:00 and 10:00 already passed, 11:00 is taken, 16:00 is the last
	// start that still ends by 17:00
	s.Equal([]string{"12:00", "13:00", "14:00", "15:00", "16:00"}, got)

	sunday, err := s.day.Execute(s.ctx, branchID, "2025-03-16", nil)
	s.Require().NoError(err)
	s.False(sunday.Open)
	s.Equal(calendar.ReasonClosedThatDay, sunday.Reason)
	s.Empty(sunday.Slots)
}

func TestCheckAvailabilityUnknownBranch(t *testing.T) {
	store := memstore.New()
	check := uc.NewCheckAvailability(store, calendar.NewEvaluator(store))

	_, err := check.Execute(context.Background(), 42, "2025-03-17", "10:00")
	require.Error(t, err)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = check.Execute(context.Background(), 42, "2025-03-17", "")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}
