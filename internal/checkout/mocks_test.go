package checkout

import (
	"context"
	"sync"

	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/payment"
	"github.com/raihanm/shopline-golang/internal/store"
)

func guestLines(productID int64, quantity int) []models.CartLine {
	return []models.CartLine{{ProductID: productID, Quantity: quantity}}
}

// MockCartStore implements CartStore for testing.
type MockCartStore struct {
	mu       sync.Mutex
	lines    map[int64]map[int64]int // userID -> productID -> quantity
	ClearCnt int
	AddErr   error
	ClearErr error
}

func NewMockCartStore() *MockCartStore {
	return &MockCartStore{lines: make(map[int64]map[int64]int)}
}

func (m *MockCartStore) Lines(_ context.Context, userID int64) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CartLine
	for productID, qty := range m.lines[userID] {
		out = append(out, models.CartLine{UserID: userID, ProductID: productID, Quantity: qty})
	}
	return out, nil
}

func (m *MockCartStore) Add(_ context.Context, userID, productID int64, quantity int) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lines[userID] == nil {
		m.lines[userID] = make(map[int64]int)
	}
	m.lines[userID][productID] += quantity
	return nil
}

func (m *MockCartStore) Clear(_ context.Context, userID int64) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, userID)
	m.ClearCnt++
	return nil
}

func (m *MockCartStore) Quantity(userID, productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lines[userID][productID]
}

// MockProductSource implements ProductSource and StockReserver backed by
// an in-memory stock ledger. Reserve applies the same all-or-nothing,
// never-negative rule as the SQL implementation.
type MockProductSource struct {
	mu         sync.Mutex
	products   map[int64]*models.Product
	ReserveCnt int
}

func NewMockProductSource(products ...*models.Product) *MockProductSource {
	m := &MockProductSource{products: make(map[int64]*models.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockProductSource) GetActive(_ context.Context, productID int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok || !p.Active {
		return nil, store.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockProductSource) Reserve(_ context.Context, details []models.OrderDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReserveCnt++
	for _, d := range details {
		p, ok := m.products[d.ProductID]
		if !ok || !p.Active || p.StockQuantity < d.Quantity {
			return &store.StockConflictError{ProductID: d.ProductID, Requested: d.Quantity}
		}
	}
	for _, d := range details {
		m.products[d.ProductID].StockQuantity -= d.Quantity
	}
	return nil
}

func (m *MockProductSource) Stock(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID].StockQuantity
}

// MockOrderStore implements OrderStore in memory with the same
// claim/transition rules as the SQL store.
type MockOrderStore struct {
	mu      sync.Mutex
	nextID  int64
	headers map[int64]*models.OrderHeader
	details map[int64][]models.OrderDetail

	CreateErr error
	AttachErr error
}

func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{headers: make(map[int64]*models.OrderHeader), details: make(map[int64][]models.OrderDetail)}
}

func (m *MockOrderStore) Create(_ context.Context, header *models.OrderHeader, details []models.OrderDetail) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	copied := *header
	copied.ID = m.nextID
	m.headers[m.nextID] = &copied
	withIDs := make([]models.OrderDetail, len(details))
	for i, d := range details {
		d.ID = int64(i + 1)
		d.OrderHeaderID = m.nextID
		withIDs[i] = d
	}
	m.details[m.nextID] = withIDs
	return m.nextID, nil
}

func (m *MockOrderStore) Get(_ context.Context, orderID int64) (*models.OrderHeader, []models.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	header, ok := m.headers[orderID]
	if !ok {
		return nil, nil, store.ErrNotFound
	}
	copied := *header
	return &copied, append([]models.OrderDetail(nil), m.details[orderID]...), nil
}

func (m *MockOrderStore) AttachPaymentSession(_ context.Context, orderID int64, sessionID, paymentIntentID string) error {
	if m.AttachErr != nil {
		return m.AttachErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	header, ok := m.headers[orderID]
	if !ok {
		return store.ErrNotFound
	}
	header.PaymentSessionID = &sessionID
	header.PaymentIntentID = &paymentIntentID
	return nil
}

func (m *MockOrderStore) UpdateStatus(_ context.Context, orderID int64, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	header, ok := m.headers[orderID]
	if !ok {
		return store.ErrNotFound
	}
	if !header.OrderStatus.CanTransitionTo(status) {
		return store.ErrIllegalTransition
	}
	header.OrderStatus = status
	header.PaymentStatus = paymentStatus
	return nil
}

func (m *MockOrderStore) ClaimConfirmation(_ context.Context, orderID int64, payment models.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	header, ok := m.headers[orderID]
	if !ok {
		return false, store.ErrNotFound
	}
	if header.OrderStatus != models.OrderStatusPending {
		return false, nil
	}
	header.OrderStatus = models.OrderStatusApproved
	header.PaymentStatus = payment
	return true, nil
}

func (m *MockOrderStore) ReleaseConfirmation(_ context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	header, ok := m.headers[orderID]
	if !ok {
		return store.ErrNotFound
	}
	header.OrderStatus = models.OrderStatusPending
	header.PaymentStatus = models.PaymentStatusPending
	return nil
}

func (m *MockOrderStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.headers)
}

// MockAccountSource implements AccountSource.
type MockAccountSource struct {
	users map[int64]*models.User
}

func NewMockAccountSource(users ...*models.User) *MockAccountSource {
	m := &MockAccountSource{users: make(map[int64]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockAccountSource) Get(_ context.Context, userID int64) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// MockProvider implements payment.Provider.
type MockProvider struct {
	mu       sync.Mutex
	Session  *payment.Session
	Err      error
	Calls    int
	LastArgs payment.CreateSessionParams
}

func (m *MockProvider) CreateSession(_ context.Context, params payment.CreateSessionParams) (*payment.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastArgs = params
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Session != nil {
		return m.Session, nil
	}
	return &payment.Session{
		RedirectURL:     "https://pay.example.com/s/redirect",
		SessionID:       "sess_test",
		PaymentIntentID: "pi_test",
	}, nil
}
