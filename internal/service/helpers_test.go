package service_test

import (
	"context"
	"sync"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/configs"
	"github.com/fuseroom/fuseroom/internal/infrastructure/logging"
	"github.com/fuseroom/fuseroom/internal/infrastructure/payments"
	"github.com/fuseroom/fuseroom/internal/infrastructure/repository"
	"github.com/fuseroom/fuseroom/internal/service"
)

// nopLogger keeps tests quiet; log assertions are not part of the contract.
type nopLogger struct{}

func (nopLogger) Init() {}

func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any)                                                         {}

func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Infof(string, ...any)                                                         {}

func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Warnf(string, ...any)                                                         {}

func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any)                                                         {}

func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any)                                                         {}

var testRoomsConfig = configs.RoomsConfig{
	MaxCodeAttempts:    5,
	MaxInitialDuration: 24 * 60 * 60,
}

var testMessagesConfig = configs.MessagesConfig{
	DefaultListLimit: 100,
	MaxContentLength: 200,
}

var testPaymentsConfig = configs.PaymentsConfig{
	APIKey:    "v0_test",
	Currency:  "usd",
	ReturnURL: "http://localhost:3000/payment-success",
}

func newRoomService(rooms domain.RoomRepository) *service.RoomService {
	return service.NewRoomService(rooms, nil, nil, nil, nopLogger{}, testRoomsConfig)
}

type fixture struct {
	rooms        domain.RoomRepository
	participants domain.ParticipantRepository
	messages     domain.MessageRepository

	roomService      *service.RoomService
	admissionService *service.AdmissionService
	messageService   *service.MessageService
}

func newFixture() *fixture {
	rooms := repository.NewRoomRepository()
	participants := repository.NewParticipantRepository()
	messages := repository.NewMessageRepository(participants)

	return &fixture{
		rooms:            rooms,
		participants:     participants,
		messages:         messages,
		roomService:      newRoomService(rooms),
		admissionService: service.NewAdmissionService(rooms, participants, nil, nopLogger{}),
		messageService:   service.NewMessageService(rooms, participants, messages, nil, nil, nopLogger{}, testMessagesConfig),
	}
}

// collidingRoomRepo fails the first n Creates with a code collision, then
// delegates to the wrapped repository.
type collidingRoomRepo struct {
	domain.RoomRepository

	mu         sync.Mutex
	collisions int
	attempts   int
}

func (r *collidingRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	r.attempts++
	collide := r.collisions > 0
	if collide {
		r.collisions--
	}
	r.mu.Unlock()

	if collide {
		return domain.ErrCodeCollision
	}
	return r.RoomRepository.Create(ctx, room)
}

func (r *collidingRoomRepo) createAttempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// fakeProvider is an in-memory payment gateway double.
type fakeProvider struct {
	mu sync.Mutex

	session   payments.CheckoutSession
	createErr error

	payments map[string]payments.Payment
	getErr   error

	createCalls int
	getCalls    int

	lastCheckout payments.CheckoutRequest
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		session: payments.CheckoutSession{
			CheckoutID:  "sess_123",
			CheckoutURL: "https://test.dodopayments.com/checkout/sess_123",
		},
		payments: make(map[string]payments.Payment),
	}
}

func (p *fakeProvider) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.createCalls++
	p.lastCheckout = req
	if p.createErr != nil {
		return nil, p.createErr
	}
	session := p.session
	return &session, nil
}

func (p *fakeProvider) GetPayment(ctx context.Context, paymentID string) (*payments.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.getCalls++
	if p.getErr != nil {
		return nil, p.getErr
	}
	payment, ok := p.payments[paymentID]
	if !ok {
		return nil, domain.ErrPaymentUnverified
	}
	return &payment, nil
}

func (p *fakeProvider) getPaymentCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getCalls
}
