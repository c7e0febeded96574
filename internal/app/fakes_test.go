package app

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"maintenance_alert_bot/internal/domain/equipment"
	"maintenance_alert_bot/internal/domain/maintenance"
	"maintenance_alert_bot/internal/domain/notification"
	idb "maintenance_alert_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// MockMaintenanceRepo keeps plans and tickets in memory.
type MockMaintenanceRepo struct {
	Plans     map[int64]*maintenance.Plan
	Tickets   []*maintenance.Ticket
	ListErr   error
	Recorded  map[int64]*time.Time
	RecordErr error
}

func NewMockMaintenanceRepo(plans ...*maintenance.Plan) *MockMaintenanceRepo {
	r := &MockMaintenanceRepo{Plans: map[int64]*maintenance.Plan{}, Recorded: map[int64]*time.Time{}}
	for _, p := range plans {
		r.Plans[p.ID] = p
	}
	return r
}

func (r *MockMaintenanceRepo) GetPlanByID(_ context.Context, id int64) (*maintenance.Plan, error) {
	p, ok := r.Plans[id]
	if !ok {
		return nil, idb.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MockMaintenanceRepo) ListActivePlans(_ context.Context) ([]*maintenance.Plan, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []*maintenance.Plan
	for _, id := range slices.Sorted(maps.Keys(r.Plans)) {
		if p := r.Plans[id]; p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MockMaintenanceRepo) RecordExecution(_ context.Context, planID int64, _ time.Time, nextDueAt *time.Time) error {
	if r.RecordErr != nil {
		return r.RecordErr
	}
	if _, ok := r.Plans[planID]; !ok {
		return idb.ErrPlanNotFound
	}
	r.Recorded[planID] = nextDueAt
	return nil
}

func (r *MockMaintenanceRepo) ListClosedTicketsByEquipment(_ context.Context, equipmentID int64) ([]*maintenance.Ticket, error) {
	var out []*maintenance.Ticket
	for _, t := range r.Tickets {
		if t.EquipmentID == equipmentID && t.ClosedAt.Valid {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MockMaintenanceRepo) ListClosedTicketsForEquipment(_ context.Context, equipmentIDs []int64) ([]*maintenance.Ticket, error) {
	var out []*maintenance.Ticket
	for _, id := range equipmentIDs {
		for _, t := range r.Tickets {
			if t.EquipmentID == id && t.ClosedAt.Valid {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type MockEquipmentRepo struct {
	Items map[int64]*equipment.Equipment
}

func NewMockEquipmentRepo(items ...*equipment.Equipment) *MockEquipmentRepo {
	r := &MockEquipmentRepo{Items: map[int64]*equipment.Equipment{}}
	for _, e := range items {
		r.Items[e.ID] = e
	}
	return r
}

func (r *MockEquipmentRepo) GetByID(_ context.Context, id int64) (*equipment.Equipment, error) {
	e, ok := r.Items[id]
	if !ok {
		return nil, idb.ErrEquipmentNotFound
	}
	return e, nil
}

func (r *MockEquipmentRepo) ListActive(_ context.Context) ([]*equipment.Equipment, error) {
	var out []*equipment.Equipment
	for _, id := range slices.Sorted(maps.Keys(r.Items)) {
		if e := r.Items[id]; e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type MockRecipientRepo struct {
	byTelegramID map[int64]*notification.Recipient
	nextID       int64
}

func NewMockRecipientRepo(recipients ...*notification.Recipient) *MockRecipientRepo {
	r := &MockRecipientRepo{byTelegramID: map[int64]*notification.Recipient{}}
	for _, rc := range recipients {
		r.byTelegramID[rc.TelegramID] = rc
		if rc.ID > r.nextID {
			r.nextID = rc.ID
		}
	}
	return r
}

func (r *MockRecipientRepo) Create(_ context.Context, rc *notification.Recipient) error {
	if _, ok := r.byTelegramID[rc.TelegramID]; ok {
		return idb.ErrDuplicateTelegramID
	}
	r.nextID++
	rc.ID = r.nextID
	r.byTelegramID[rc.TelegramID] = rc
	return nil
}

func (r *MockRecipientRepo) GetByTelegramID(_ context.Context, telegramID int64) (*notification.Recipient, error) {
	rc, ok := r.byTelegramID[telegramID]
	if !ok {
		return nil, idb.ErrRecipientNotFound
	}
	return rc, nil
}

func (r *MockRecipientRepo) Update(_ context.Context, rc *notification.Recipient) error {
	if _, ok := r.byTelegramID[rc.TelegramID]; !ok {
		return idb.ErrRecipientNotFound
	}
	r.byTelegramID[rc.TelegramID] = rc
	return nil
}

func (r *MockRecipientRepo) ListActive(ctx context.Context) ([]*notification.Recipient, error) {
	all, _ := r.ListAll(ctx)
	var out []*notification.Recipient
	for _, rc := range all {
		if rc.IsActive {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (r *MockRecipientRepo) ListAll(_ context.Context) ([]*notification.Recipient, error) {
	out := slices.Collect(maps.Values(r.byTelegramID))
	slices.SortFunc(out, func(a, b *notification.Recipient) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

type MockDispatchRepo struct {
	sent map[string]*notification.Dispatch
}

func NewMockDispatchRepo() *MockDispatchRepo {
	return &MockDispatchRepo{sent: map[string]*notification.Dispatch{}}
}

func dispatchKey(k notification.Key) string {
	return fmt.Sprintf("%d/%d/%s/%d/%t", k.PlanID, k.RecipientID, k.DueDate.Format("2006-01-02"), k.DaysOffset, k.Overdue)
}

func (r *MockDispatchRepo) HasDispatch(_ context.Context, key notification.Key) (bool, error) {
	_, ok := r.sent[dispatchKey(key)]
	return ok, nil
}

func (r *MockDispatchRepo) CreateDispatch(_ context.Context, d *notification.Dispatch) error {
	k := dispatchKey(d.Key())
	if _, ok := r.sent[k]; ok {
		return idb.ErrDuplicateDispatch
	}
	r.sent[k] = d
	return nil
}

type sentMessage struct {
	ChatID  int64
	Text    string
	Options *telebot.SendOptions
}

// MockTelegramClient records messages; chats listed in FailFor return an error.
type MockTelegramClient struct {
	mu      sync.Mutex
	Sent    []sentMessage
	FailFor map[int64]bool
}

func (c *MockTelegramClient) SendMessage(_ context.Context, chatID int64, text string, options *telebot.SendOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailFor[chatID] {
		return fmt.Errorf("telegram: chat %d unreachable", chatID)
	}
	c.Sent = append(c.Sent, sentMessage{ChatID: chatID, Text: text, Options: options})
	return nil
}

type MockRecorder struct {
	Sweeps     int
	SweepErrs  int
	Fired      map[string]int
	Dispatches map[string]int
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{Fired: map[string]int{}, Dispatches: map[string]int{}}
}

func (r *MockRecorder) ObserveSweep(_ time.Duration, err error) {
	r.Sweeps++
	if err != nil {
		r.SweepErrs++
	}
}

func (r *MockRecorder) AlertFired(severity string) { r.Fired[severity]++ }
func (r *MockRecorder) Dispatch(result string)     { r.Dispatches[result]++ }
