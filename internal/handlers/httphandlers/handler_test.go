package httphandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/sessionstore"
	"github.com/balazs-web/smoky-fish-sub000/internal/basket"
	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
	"github.com/balazs-web/smoky-fish-sub000/internal/service"
	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
)

type fakeStorage struct {
	orders   map[string]models.PersistedOrder
	failSave bool
	saves    int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{orders: make(map[string]models.PersistedOrder)}
}

func (f *fakeStorage) SaveOrder(_ context.Context, order models.PersistedOrder) error {
	f.saves++
	if f.failSave {
		return errors.New("disk on fire")
	}
	f.orders[order.OrderID] = order
	return nil
}

func (f *fakeStorage) GetOrderByID(_ context.Context, orderID string) (models.PersistedOrder, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return models.PersistedOrder{}, customerrors.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeStorage) GetLastOrders(context.Context, models.OrderStatus, int) ([]models.PersistedOrder, error) {
	var out []models.PersistedOrder
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStorage) UpdateOrderStatus(_ context.Context, orderID string, status models.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return customerrors.ErrOrderNotFound
	}
	order.Status = status
	f.orders[orderID] = order
	return nil
}

type fakeDispatcher struct {
	calls   int
	results models.EmailResults
}

func (f *fakeDispatcher) DispatchOrderNotifications(context.Context, string, models.Submission) models.EmailResults {
	f.calls++
	return f.results
}

type fakeCatalog struct {
	products map[string]models.CatalogProduct
}

func (f *fakeCatalog) Product(_ context.Context, id string) (models.CatalogProduct, error) {
	p, ok := f.products[id]
	if !ok {
		return models.CatalogProduct{}, customerrors.NewValidationError("unknown product")
	}
	return p, nil
}

type testEnv struct {
	server     *httptest.Server
	storage    *fakeStorage
	dispatcher *fakeDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage := newFakeStorage()
	dispatcher := &fakeDispatcher{results: models.EmailResults{CustomerEmailSent: true, ManagerEmailSent: true}}
	catalog := &fakeCatalog{products: map[string]models.CatalogProduct{
		"p-trout": {ID: "p-trout", Name: "Smoked trout fillet", UnitPrice: 3490},
	}}

	orders := service.NewOrderService(storage, dispatcher, nil, catalog, "SF-")
	sessions := service.NewSessionService(sessionstore.NewMemory(), catalog,
		basket.Pricing{ShippingCost: 990, FreeShippingThreshold: 20000})

	handler := NewHandler(orders, sessions, nil)
	server := httptest.NewServer(NewRouter(handler, logger.NewNop()))
	t.Cleanup(server.Close)

	return &testEnv{server: server, storage: storage, dispatcher: dispatcher}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func validRequest() submitOrderRequest {
	return submitOrderRequest{
		Items: []basketItemDTO{
			{ProductID: "p-trout", ProductName: "Smoked trout fillet", Price: 3490, Quantity: 2},
		},
		Subtotal:     6980,
		ShippingCost: 990,
		TotalPrice:   7970,
		ShippingAddress: shippingAddressDTO{
			Name: "Kiss Anna", Phone: "+36301234567", Email: "anna@example.com",
			Postcode: "1052", City: "Budapest", Street: "Váci utca", HouseNumber: "12",
		},
		BillingAddress: billingAddressDTO{SameAsShipping: true},
		TermsAccepted:  true,
	}
}

func TestSubmitOrderSuccess(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/orders", "", validRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[submitOrderResponse](t, resp)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.OrderID)
	assert.Nil(t, body.InvoiceID)
	assert.True(t, body.EmailResults.CustomerEmailSent)
	assert.True(t, body.EmailResults.ManagerEmailSent)
	assert.NotEmpty(t, body.Message)

	assert.Equal(t, 1, env.dispatcher.calls)
	assert.Len(t, env.storage.orders, 1)
}

func TestSubmitOrderEmptyBasket(t *testing.T) {
	env := newTestEnv(t)

	req := validRequest()
	req.Items = nil

	resp := env.do(t, http.MethodPost, "/orders", "", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, checkout.MsgEmptyBasket, body.Error)

	// no side effects at all
	assert.Zero(t, env.storage.saves)
	assert.Zero(t, env.dispatcher.calls)
}

func TestSubmitOrderOutsideDeliveryArea(t *testing.T) {
	env := newTestEnv(t)

	req := validRequest()
	req.ShippingAddress.Postcode = "9999"

	resp := env.do(t, http.MethodPost, "/orders", "", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, checkout.MsgOutsideDeliveryArea, body.Error)
}

func TestSubmitOrderPersistenceFailureKeepsResponseShape(t *testing.T) {
	env := newTestEnv(t)
	env.storage.failSave = true

	resp := env.do(t, http.MethodPost, "/orders", "", validRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[submitOrderResponse](t, resp)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.OrderID)
}

func TestSubmitOrderInvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.server.URL+"/orders", "application/json",
		bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/orders", "", validRequest())
	submitted := decodeBody[submitOrderResponse](t, resp)

	resp = env.do(t, http.MethodGet, "/orders/"+submitted.OrderID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	order := decodeBody[orderResponse](t, resp)
	assert.Equal(t, submitted.OrderID, order.OrderID)
	assert.Equal(t, "new", order.Status)
	assert.Equal(t, "Budapest", order.DeliveryCity)

	resp = env.do(t, http.MethodGet, "/orders/SF-NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/orders", "", validRequest())
	submitted := decodeBody[submitOrderResponse](t, resp)

	resp = env.do(t, http.MethodPatch, "/orders/"+submitted.OrderID+"/status", "",
		updateStatusRequest{Status: "shipped"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/orders/"+submitted.OrderID, "", nil)
	order := decodeBody[orderResponse](t, resp)
	assert.Equal(t, "shipped", order.Status)

	resp = env.do(t, http.MethodPatch, "/orders/"+submitted.OrderID+"/status", "",
		updateStatusRequest{Status: "teleported"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckDelivery(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/delivery/1052", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[deliveryCheckResponse](t, resp)
	assert.True(t, body.Serviceable)
	assert.Equal(t, "Budapest", body.City)

	resp = env.do(t, http.MethodGet, "/delivery/9999", "", nil)
	body = decodeBody[deliveryCheckResponse](t, resp)
	assert.False(t, body.Serviceable)
	assert.Empty(t, body.City)
}

func TestSessionBasketFlow(t *testing.T) {
	env := newTestEnv(t)

	// session header is mandatory
	resp := env.do(t, http.MethodPost, "/session/basket/items", "",
		addItemRequest{ProductID: "p-trout", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/session/basket/items", "s1",
		addItemRequest{ProductID: "p-trout", Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decodeBody[sessionResponse](t, resp)
	assert.Equal(t, 1, session.ItemCount)
	assert.Equal(t, 6980, session.Subtotal)
	assert.Equal(t, 990, session.ShippingCost)

	resp = env.do(t, http.MethodPost, "/session/checkout/step", "s1",
		checkoutStepRequest{Step: "shipping"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeBody[sessionResponse](t, resp)
	assert.Equal(t, "shipping", session.Step)

	// skipping ahead is rejected with a client error
	resp = env.do(t, http.MethodPost, "/session/checkout/step", "s1",
		checkoutStepRequest{Step: "success"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmitCompletesTrackedSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/session/basket/items", "s1",
		addItemRequest{ProductID: "p-trout", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/orders", "s1", validRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/session/checkout", "s1", nil)
	session := decodeBody[sessionResponse](t, resp)
	assert.Equal(t, "success", session.Step)
	assert.Equal(t, 0, session.ItemCount)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
