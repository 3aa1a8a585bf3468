package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("search") == "banana" {
			w.Write([]byte(`[{"itemID":"1","name":"Organic Banana","itemPrice":199,"itemQuantity":122,"discountCode":"FRUIT99","isOnSale":true}]`))
			return
		}
		w.Write([]byte(`[
			{"itemID":"1","name":"Organic Banana","itemPrice":199,"itemQuantity":122,"discountCode":"FRUIT99","isOnSale":true},
			{"itemID":"2","name":"Fresh Strawberries","itemPrice":399,"itemQuantity":85,"discountCode":null,"isOnSale":false}
		]`))
	})
	mux.HandleFunc("/items/9", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"ITEM_NOT_FOUND","message":"Item not found"}`))
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"orderID":"7","customerID":1001,"orderTime":"2026-03-01T12:00:00Z","orderStatus":false,"orderPrice":1117,"items":[{"name":"Whole Milk","quantity":2,"itemPrice":329,"imageID":""}]}]`))
	})
	mux.HandleFunc("/orders/7/execute", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"UNAUTHORIZED","message":"missing token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orderID":7,"orderStatus":true}`))
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-123","username":"clerk","level":"opr","expire":1790000000}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestItemSourceFetchNormalizesWireFields(t *testing.T) {
	srv := newStoreStub(t)
	source := NewItemSource(NewSession(srv.URL), StrategyClient)

	items, err := source.Fetch(context.Background(), NewQueryState())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "Organic Banana", items[0].Name)
	assert.Equal(t, int64(199), items[0].Price)
	assert.Equal(t, "FRUIT99", items[0].DiscountCode)
	assert.True(t, items[0].OnSale)

	// null discount code decodes to empty string
	assert.Equal(t, "", items[1].DiscountCode)
}

func TestItemSourceServerStrategySendsQuery(t *testing.T) {
	srv := newStoreStub(t)
	source := NewItemSource(NewSession(srv.URL), StrategyServer)

	items, err := source.Fetch(context.Background(), NewQueryState().WithSearch("banana"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Organic Banana", items[0].Name)
}

func TestItemSourceClientStrategyIgnoresQuery(t *testing.T) {
	srv := newStoreStub(t)
	source := NewItemSource(NewSession(srv.URL), StrategyClient)

	// client strategy always pulls the full collection
	items, err := source.Fetch(context.Background(), NewQueryState().WithSearch("banana"))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestItemSourceGetNotFound(t *testing.T) {
	srv := newStoreStub(t)
	source := NewItemSource(NewSession(srv.URL), StrategyClient)

	_, err := source.Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestOrderSourceFetch(t *testing.T) {
	srv := newStoreStub(t)
	source := NewOrderSource(NewSession(srv.URL), StrategyClient)

	orders, err := source.Fetch(context.Background(), NewQueryState())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, int64(7), orders[0].ID)
	assert.Equal(t, int64(1001), orders[0].CustomerID)
	assert.False(t, orders[0].Executed)
	assert.Equal(t, int64(1117), orders[0].TotalPrice)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Whole Milk", orders[0].Items[0].Name)
}

func TestSessionLoginCarriesTokenToExecute(t *testing.T) {
	srv := newStoreStub(t)
	session := NewSession(srv.URL)
	source := NewOrderSource(session, StrategyClient)

	// anonymous execute is rejected
	err := source.Execute(context.Background(), 7)
	require.Error(t, err)

	result, err := session.Login(context.Background(), "clerk", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", result.Token)
	assert.Equal(t, "tok-123", session.Token())

	require.NoError(t, source.Execute(context.Background(), 7))

	// logout drops the token, mutations fail again
	session.Logout()
	assert.Error(t, source.Execute(context.Background(), 7))
}

func TestSourceTransportError(t *testing.T) {
	source := NewItemSource(NewSession("http://127.0.0.1:1"), StrategyClient)
	_, err := source.Fetch(context.Background(), NewQueryState())
	assert.Error(t, err)
}
