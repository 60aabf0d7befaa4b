// Package memstore is an in-memory implementation of the repositories,
// used by tests and by the "memory" store driver. It mirrors the unique
// constraints and atomicity of the PostgreSQL schema.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/dto"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

type Store struct {
	mu     sync.RWMutex
	nextID uint

	appointments map[uint]models.Appointment
	clients      map[uint]models.Client
	pets         map[uint]models.Pet
	services     map[uint]models.Service
	branches     map[uint]models.Branch
	hours        map[uint]models.OperatingHours
	special      map[uint]models.SpecialHours
	nonWorking   map[uint]models.NonWorkingDay
	events       []audit.Event

	// Err, when set, is returned by every call instead of touching data.
	err error
}

func New() *Store {
	return &Store{
		appointments: map[uint]models.Appointment{},
		clients:      map[uint]models.Client{},
		pets:         map[uint]models.Pet{},
		services:     map[uint]models.Service{},
		branches:     map[uint]models.Branch{},
		hours:        map[uint]models.OperatingHours{},
		special:      map[uint]models.SpecialHours{},
		nonWorking:   map[uint]models.NonWorkingDay{},
	}
}

// SetError makes every following call fail with err until cleared with nil.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Store) fail(op string) error {
	if s.err != nil {
		return httperr.Store(op, s.err)
	}
	return nil
}

func (s *Store) id(current uint) uint {
	if current != 0 {
		if current > s.nextID {
			s.nextID = current
		}
		return current
	}
	s.nextID++
	return s.nextID
}

// ======================================================
// Seeding
// ======================================================

func (s *Store) AddBranch(b models.Branch) models.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id(b.ID)
	s.branches[b.ID] = b
	return b
}

func (s *Store) AddService(v models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.id(v.ID)
	s.services[v.ID] = v
	return v
}

func (s *Store) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id(c.ID)
	s.clients[c.ID] = c
	return c
}

func (s *Store) AddPet(p models.Pet) models.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id(p.ID)
	s.pets[p.ID] = p
	return p
}

func (s *Store) AddOperatingHours(oh models.OperatingHours) models.OperatingHours {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.hours {
		if existing.BranchID == oh.BranchID && existing.Weekday == oh.Weekday {
			oh.ID = id
		}
	}
	oh.ID = s.id(oh.ID)
	s.hours[oh.ID] = oh
	return oh
}

// PutAppointment stores ap as-is, bypassing every rule. Used to set up
// fixtures such as appointments in the past.
func (s *Store) PutAppointment(ap models.Appointment) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap.ID = s.id(ap.ID)
	s.appointments[ap.ID] = ap
	return ap
}

func (s *Store) AuditEvents() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event(nil), s.events...)
}

// Write implements audit.Sink.
func (s *Store) Write(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// ======================================================
// References
// ======================================================

func (s *Store) GetClient(_ context.Context, id uint) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get cliente"); err != nil {
		return nil, err
	}
	c, ok := s.clients[id]
	if !ok {
		return nil, httperr.NotFound("client_not_found", "client not found")
	}
	return &c, nil
}

func (s *Store) GetPet(_ context.Context, id uint) (*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get mascota"); err != nil {
		return nil, err
	}
	p, ok := s.pets[id]
	if !ok {
		return nil, httperr.NotFound("pet_not_found", "pet not found")
	}
	return &p, nil
}

func (s *Store) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get servicio"); err != nil {
		return nil, err
	}
	v, ok := s.services[id]
	if !ok {
		return nil, httperr.NotFound("service_not_found", "service not found")
	}
	return &v, nil
}

func (s *Store) GetBranch(_ context.Context, id uint) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get sucursal"); err != nil {
		return nil, err
	}
	b, ok := s.branches[id]
	if !ok {
		return nil, httperr.NotFound("branch_not_found", "branch not found")
	}
	return &b, nil
}

func (s *Store) ListBranches(_ context.Context, activeOnly bool) ([]models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list sucursales"); err != nil {
		return nil, err
	}
	out := []models.Branch{}
	for _, b := range s.branches {
		if activeOnly && !b.Active {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListServices(_ context.Context, activeOnly bool) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list servicios"); err != nil {
		return nil, err
	}
	out := []models.Service{}
	for _, v := range s.services {
		if activeOnly && !v.Active {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ======================================================
// Appointments
// ======================================================

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get cita"); err != nil {
		return nil, err
	}
	ap, ok := s.appointments[id]
	if !ok {
		return nil, httperr.NotFound("appointment_not_found", "appointment not found")
	}
	return &ap, nil
}

func (s *Store) view(ap models.Appointment) dto.AppointmentListDTO {
	c := s.clients[ap.ClientID]
	p := s.pets[ap.PetID]
	v := s.services[ap.ServiceID]
	b := s.branches[ap.BranchID]

	return dto.AppointmentListDTO{
		ID:           ap.ID,
		Date:         ap.Date,
		Time:         ap.Time,
		Status:       ap.Status,
		Notes:        ap.Notes,
		ClientID:     ap.ClientID,
		ClientName:   c.Name,
		PetID:        ap.PetID,
		PetName:      p.Name,
		PetSpecies:   p.Species,
		ServiceID:    ap.ServiceID,
		ServiceName:  v.Name,
		ServicePrice: v.Price,
		BranchID:     ap.BranchID,
		BranchName:   b.Name,
		CreatedAt:    ap.CreatedAt,
	}
}

func matches(ap models.Appointment, f domain.ListFilter) bool {
	if f.ClientID != nil && ap.ClientID != *f.ClientID {
		return false
	}
	if f.BranchID != nil && ap.BranchID != *f.BranchID {
		return false
	}
	if f.Date != nil && !ap.Date.Equal(*f.Date) {
		return false
	}
	if f.Status != nil && ap.Status != string(*f.Status) {
		return false
	}
	if f.Upcoming {
		if !domain.Status(ap.Status).Active() {
			return false
		}
		if ap.Date.Before(f.Today) || (ap.Date.Equal(f.Today) && ap.Time < f.Now) {
			return false
		}
	}
	return true
}

func (s *Store) ListAppointments(_ context.Context, f domain.ListFilter) ([]dto.AppointmentListDTO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list citas"); err != nil {
		return nil, err
	}

	out := []dto.AppointmentListDTO{}
	for _, ap := range s.appointments {
		if matches(ap, f) {
			out = append(out, s.view(ap))
		}
	}

	less := func(a, b dto.AppointmentListDTO) bool {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Upcoming {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func (s *Store) CountByStatusAndDate(_ context.Context, clientID *uint) ([]domain.StatusDateCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("count citas"); err != nil {
		return nil, err
	}

	type key struct {
		status string
		date   types.Date
	}
	counts := map[key]int64{}
	for _, ap := range s.appointments {
		if clientID != nil && ap.ClientID != *clientID {
			continue
		}
		counts[key{ap.Status, ap.Date}]++
	}

	out := make([]domain.StatusDateCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.StatusDateCount{Status: domain.Status(k.status), Date: k.date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

func (s *Store) HasActiveAppointmentAt(_ context.Context, branchID uint, date types.Date, at types.Clock, excludeID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("check slot"); err != nil {
		return false, err
	}
	for _, ap := range s.appointments {
		if ap.ID != excludeID && ap.BranchID == branchID && ap.Date.Equal(date) &&
			ap.Time == at && domain.Status(ap.Status).Active() {
			return true, nil
		}
	}
	return false, nil
}

// slotHeld mirrors the unique index on active slots. Callers hold the lock.
func (s *Store) slotHeld(ap models.Appointment) bool {
	if !domain.Status(ap.Status).Active() {
		return false
	}
	for _, other := range s.appointments {
		if other.ID != ap.ID && other.BranchID == ap.BranchID && other.Date.Equal(ap.Date) &&
			other.Time == ap.Time && domain.Status(other.Status).Active() {
			return true
		}
	}
	return false
}

func (s *Store) ListTakenTimes(_ context.Context, branchID uint, date types.Date) ([]types.Clock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list taken times"); err != nil {
		return nil, err
	}
	var out []types.Clock
	for _, ap := range s.appointments {
		if ap.BranchID == branchID && ap.Date.Equal(date) && domain.Status(ap.Status).Active() {
			out = append(out, ap.Time)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert cita"); err != nil {
		return err
	}

	if _, ok := s.clients[ap.ClientID]; !ok {
		return httperr.NotFound("reference_not_found", "a referenced record does not exist")
	}
	if _, ok := s.pets[ap.PetID]; !ok {
		return httperr.NotFound("reference_not_found", "a referenced record does not exist")
	}

	if s.slotHeld(*ap) {
		return httperr.Conflict("duplicate_record", "a record with the same key already exists")
	}

	now := time.Now().UTC()
	ap.ID = s.id(0)
	ap.CreatedAt = now
	ap.UpdatedAt = now
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment, prev domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update cita"); err != nil {
		return err
	}
	stored, ok := s.appointments[ap.ID]
	if !ok {
		return httperr.NotFound("appointment_not_found", "appointment not found")
	}
	if stored.Status != string(prev) {
		return httperr.InvalidTransition(stored.Status, ap.Status)
	}
	if s.slotHeld(*ap) {
		return httperr.Conflict("duplicate_record", "a record with the same key already exists")
	}
	ap.UpdatedAt = time.Now().UTC()
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) DeleteAppointment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete cita"); err != nil {
		return err
	}
	if _, ok := s.appointments[id]; !ok {
		return httperr.NotFound("appointment_not_found", "appointment not found")
	}
	delete(s.appointments, id)
	return nil
}

func (s *Store) LapsePastAppointments(_ context.Context, in domain.LapseInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("lapse citas"); err != nil {
		return 0, err
	}

	from := map[string]bool{}
	for _, st := range in.From {
		from[string(st)] = true
	}

	var n int64
	for id, ap := range s.appointments {
		if !from[ap.Status] || !domain.MomentPassed(ap.Date, ap.Time, in.Today, in.Now) {
			continue
		}
		completedAt := in.CompletedAt
		ap.Status = string(domain.StatusCompleted)
		ap.CompletedAt = &completedAt
		ap.UpdatedAt = completedAt
		s.appointments[id] = ap
		n++
	}
	return n, nil
}

// ======================================================
// Calendar lookups
// ======================================================

func (s *Store) FindNonWorkingDay(_ context.Context, branchID uint, date types.Date) (*models.NonWorkingDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("find dia no laborable"); err != nil {
		return nil, err
	}

	var global *models.NonWorkingDay
	for _, d := range s.nonWorking {
		if !d.Date.Equal(date) {
			continue
		}
		d := d
		if d.BranchID != nil && *d.BranchID == branchID {
			return &d, nil
		}
		if d.BranchID == nil {
			global = &d
		}
	}
	return global, nil
}

func (s *Store) FindSpecialHours(_ context.Context, branchID uint, date types.Date) (*models.SpecialHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("find horario especial"); err != nil {
		return nil, err
	}
	for _, sh := range s.special {
		if sh.BranchID == branchID && sh.Date.Equal(date) {
			sh := sh
			return &sh, nil
		}
	}
	return nil, nil
}

func (s *Store) FindOperatingHours(_ context.Context, branchID uint, weekday int) (*models.OperatingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("find horario"); err != nil {
		return nil, err
	}
	for _, oh := range s.hours {
		if oh.BranchID == branchID && oh.Weekday == weekday {
			oh := oh
			return &oh, nil
		}
	}
	return nil, nil
}

// ======================================================
// Calendar administration
// ======================================================

func (s *Store) ListOperatingHours(_ context.Context, branchID *uint) ([]models.OperatingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list horarios"); err != nil {
		return nil, err
	}
	out := []models.OperatingHours{}
	for _, oh := range s.hours {
		if branchID != nil && oh.BranchID != *branchID {
			continue
		}
		out = append(out, oh)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].Weekday < out[j].Weekday
	})
	return out, nil
}

func (s *Store) GetOperatingHours(_ context.Context, id uint) (*models.OperatingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get horario"); err != nil {
		return nil, err
	}
	oh, ok := s.hours[id]
	if !ok {
		return nil, httperr.NotFound("operating_hours_not_found", "operating hours not found")
	}
	return &oh, nil
}

func (s *Store) applyHours(oh models.OperatingHours) {
	cur := s.hours[oh.ID]
	cur.Start = oh.Start
	cur.End = oh.End
	cur.Active = oh.Active
	cur.UpdatedAt = time.Now().UTC()
	s.hours[oh.ID] = cur
}

func (s *Store) UpdateOperatingHours(_ context.Context, oh *models.OperatingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update horario"); err != nil {
		return err
	}
	if _, ok := s.hours[oh.ID]; !ok {
		return httperr.NotFound("operating_hours_not_found", "operating hours not found")
	}
	s.applyHours(*oh)
	return nil
}

func (s *Store) UpdateOperatingHoursBatch(_ context.Context, rows []models.OperatingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update horarios"); err != nil {
		return err
	}
	for _, oh := range rows {
		if _, ok := s.hours[oh.ID]; !ok {
			return httperr.NotFound("operating_hours_not_found", "operating hours not found")
		}
	}
	for _, oh := range rows {
		s.applyHours(oh)
	}
	return nil
}

func (s *Store) ListSpecialHours(_ context.Context, branchID *uint, from *types.Date) ([]models.SpecialHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list horarios especiales"); err != nil {
		return nil, err
	}
	out := []models.SpecialHours{}
	for _, sh := range s.special {
		if branchID != nil && sh.BranchID != *branchID {
			continue
		}
		if from != nil && sh.Date.Before(*from) {
			continue
		}
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].BranchID < out[j].BranchID
	})
	return out, nil
}

func (s *Store) GetSpecialHours(_ context.Context, id uint) (*models.SpecialHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("get horario especial"); err != nil {
		return nil, err
	}
	sh, ok := s.special[id]
	if !ok {
		return nil, httperr.NotFound("special_hours_not_found", "special hours not found")
	}
	return &sh, nil
}

func (s *Store) specialTaken(sh *models.SpecialHours) bool {
	for id, other := range s.special {
		if id != sh.ID && other.BranchID == sh.BranchID && other.Date.Equal(sh.Date) {
			return true
		}
	}
	return false
}

func (s *Store) CreateSpecialHours(_ context.Context, sh *models.SpecialHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert horario especial"); err != nil {
		return err
	}
	if _, ok := s.branches[sh.BranchID]; !ok {
		return httperr.NotFound("reference_not_found", "a referenced record does not exist")
	}
	if s.specialTaken(sh) {
		return httperr.Conflict("duplicate_special_hours", "special hours already exist for this branch and date")
	}
	now := time.Now().UTC()
	sh.ID = s.id(0)
	sh.CreatedAt = now
	sh.UpdatedAt = now
	s.special[sh.ID] = *sh
	return nil
}

func (s *Store) UpdateSpecialHours(_ context.Context, sh *models.SpecialHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update horario especial"); err != nil {
		return err
	}
	if _, ok := s.special[sh.ID]; !ok {
		return httperr.NotFound("special_hours_not_found", "special hours not found")
	}
	if s.specialTaken(sh) {
		return httperr.Conflict("duplicate_special_hours", "special hours already exist for this branch and date")
	}
	sh.UpdatedAt = time.Now().UTC()
	s.special[sh.ID] = *sh
	return nil
}

func (s *Store) DeleteSpecialHours(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete horario especial"); err != nil {
		return err
	}
	if _, ok := s.special[id]; !ok {
		return httperr.NotFound("special_hours_not_found", "special hours not found")
	}
	delete(s.special, id)
	return nil
}

func (s *Store) ListNonWorkingDays(_ context.Context, branchID *uint, from types.Date) ([]models.NonWorkingDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("list dias no laborables"); err != nil {
		return nil, err
	}
	out := []models.NonWorkingDay{}
	for _, d := range s.nonWorking {
		if d.Date.Before(from) {
			continue
		}
		if branchID != nil && d.BranchID != nil && *d.BranchID != *branchID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func sameBranch(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Store) CreateNonWorkingDay(_ context.Context, d *models.NonWorkingDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert dia no laborable"); err != nil {
		return err
	}
	if d.BranchID != nil {
		if _, ok := s.branches[*d.BranchID]; !ok {
			return httperr.NotFound("reference_not_found", "a referenced record does not exist")
		}
	}
	for _, other := range s.nonWorking {
		if other.Date.Equal(d.Date) && sameBranch(other.BranchID, d.BranchID) {
			return httperr.Conflict("duplicate_non_working_day", "this date is already registered as a non-working day")
		}
	}
	d.ID = s.id(0)
	d.CreatedAt = time.Now().UTC()
	s.nonWorking[d.ID] = *d
	return nil
}

func (s *Store) DeleteNonWorkingDay(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete dia no laborable"); err != nil {
		return err
	}
	if _, ok := s.nonWorking[id]; !ok {
		return httperr.NotFound("non_working_day_not_found", "non-working day not found")
	}
	delete(s.nonWorking, id)
	return nil
}

var (
	_ domain.Repository   = (*Store)(nil)
	_ domain.References   = (*Store)(nil)
	_ calendar.Repository = (*Store)(nil)
	_ audit.Sink          = (*Store)(nil)
)
