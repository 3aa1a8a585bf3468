package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Strategy selects where list shaping happens. With StrategyServer the
// query state is translated into search/sort/order parameters and the
// server returns a shaped list; with StrategyClient the full collection
// is fetched and shaped locally. Pagination is local either way.
type Strategy int

const (
	StrategyServer Strategy = iota
	StrategyClient
)

// ErrItemNotFound and ErrOrderNotFound map the server's 404 responses.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExecuted maps the server's 409 on a repeated execute.
	ErrOrderAlreadyExecuted = errors.New("order has already been executed")
)

// Session holds the connection target and the bearer token of an
// authenticated operator. A zero token means anonymous; only catalog
// and order reads work then.
type Session struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

func NewSession(baseURL string) *Session {
	return &Session{baseURL: baseURL, timeout: 30 * time.Second}
}

func (s *Session) url(path string) string {
	return s.baseURL + path
}

func (s *Session) authHeader() gout.H {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := gout.H{"Accept": "application/json"}
	if s.token != "" {
		h["Authorization"] = "Bearer " + s.token
	}
	return h
}

// SetToken installs an externally obtained bearer token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the current bearer token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Level    string `json:"level"`
	Expire   int64  `json:"expire"`
}

// Login authenticates against the store and keeps the issued token for
// subsequent mutating calls.
func (s *Session) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var body []byte
	var code int
	err := gout.POST(s.url("/auth/login")).
		WithContext(ctx).
		SetTimeout(s.timeout).
		SetJSON(gout.H{"username": username, "password": password}).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "login request failed")
	}
	if code != http.StatusOK {
		return nil, decodeError(code, body)
	}
	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decode login response")
	}
	s.mu.Lock()
	s.token = result.Token
	s.mu.Unlock()
	return &result, nil
}

// Register creates an operator account. It does not log in.
func (s *Session) Register(ctx context.Context, username, password string) error {
	var body []byte
	var code int
	err := gout.POST(s.url("/auth/register")).
		WithContext(ctx).
		SetTimeout(s.timeout).
		SetJSON(gout.H{"username": username, "password": password}).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "register request failed")
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return decodeError(code, body)
	}
	return nil
}

// Logout drops the stored token.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// wireError is the server's failure envelope.
type wireError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail"`
}

func decodeError(status int, body []byte) error {
	var we wireError
	if err := json.Unmarshal(body, &we); err == nil && we.Code != "" {
		switch we.Code {
		case "ITEM_NOT_FOUND":
			return ErrItemNotFound
		case "ORDER_NOT_FOUND":
			return ErrOrderNotFound
		case "ORDER_ALREADY_EXECUTED":
			return ErrOrderAlreadyExecuted
		}
		return errors.Errorf("%s: %s", we.Code, we.Message)
	}
	return errors.Errorf("unexpected status %d", status)
}

// wireItem mirrors the server's catalog JSON. IDs travel as strings to
// survive JavaScript consumers; prices are integer cents.
type wireItem struct {
	ID           int64   `json:"itemID,string"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ImageID      string  `json:"imageID"`
	Price        int64   `json:"itemPrice"`
	Quantity     int     `json:"itemQuantity"`
	DiscountCode *string `json:"discountCode"`
	OnSale       bool    `json:"isOnSale"`
}

func (w wireItem) toItem() Item {
	item := Item{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		ImageID:     w.ImageID,
		Price:       w.Price,
		Quantity:    w.Quantity,
		OnSale:      w.OnSale,
	}
	if w.DiscountCode != nil {
		item.DiscountCode = *w.DiscountCode
	}
	return item
}

type wireOrderLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"itemPrice"`
	ImageID   string `json:"imageID"`
}

type wireOrder struct {
	ID         int64           `json:"orderID,string"`
	CustomerID int64           `json:"customerID"`
	OrderTime  time.Time       `json:"orderTime"`
	Executed   bool            `json:"orderStatus"`
	TotalPrice int64           `json:"orderPrice"`
	Items      []wireOrderLine `json:"items"`
}

func (w wireOrder) toOrder() Order {
	order := Order{
		ID:         w.ID,
		CustomerID: w.CustomerID,
		OrderTime:  w.OrderTime,
		Executed:   w.Executed,
		TotalPrice: w.TotalPrice,
	}
	for _, line := range w.Items {
		order.Items = append(order.Items, OrderLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			ImageID:   line.ImageID,
		})
	}
	return order
}

// queryParams translates the query state for the server-side strategy.
// Pagination stays off the wire, the server always returns the full
// matching set.
func queryParams(state QueryState) gout.H {
	params := gout.H{}
	if state.Search != "" {
		params["search"] = state.Search
	}
	if state.Sort != SortNone {
		params["sort"] = string(state.Sort)
	}
	if state.Order == Descending {
		params["order"] = "desc"
	}
	return params
}

// ItemSource fetches the catalog over HTTP.
type ItemSource struct {
	session  *Session
	strategy Strategy
}

func NewItemSource(session *Session, strategy Strategy) *ItemSource {
	return &ItemSource{session: session, strategy: strategy}
}

func (s *ItemSource) get(ctx context.Context, path string, params gout.H, out interface{}) error {
	var body []byte
	var code int
	req := gout.GET(s.session.url(path)).
		WithContext(ctx).
		SetTimeout(s.session.timeout).
		SetHeader(s.session.authHeader())
	if len(params) > 0 {
		req = req.SetQuery(params)
	}
	if err := req.BindBody(&body).Code(&code).Do(); err != nil {
		return errors.Wrap(err, "request failed")
	}
	if code != http.StatusOK {
		return decodeError(code, body)
	}
	return errors.Wrap(json.Unmarshal(body, out), "decode response")
}

// Fetch implements Source. Under the server strategy the query state is
// pushed to the server; under the client strategy the whole catalog is
// pulled and shaping is left to the view.
func (s *ItemSource) Fetch(ctx context.Context, state QueryState) ([]Item, error) {
	params := gout.H{}
	if s.strategy == StrategyServer {
		params = queryParams(state)
	}
	var wires []wireItem
	if err := s.get(ctx, "/items", params, &wires); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(wires))
	for _, w := range wires {
		items = append(items, w.toItem())
	}
	return items, nil
}

// Get fetches one item, ErrItemNotFound when it does not exist.
func (s *ItemSource) Get(ctx context.Context, id int64) (*Item, error) {
	var w wireItem
	if err := s.get(ctx, fmt.Sprintf("/items/%d", id), nil, &w); err != nil {
		return nil, err
	}
	item := w.toItem()
	return &item, nil
}

// ItemInput carries the mutable item fields for create and update.
type ItemInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ImageID      string  `json:"imageID"`
	Price        int64   `json:"itemPrice"`
	Quantity     int     `json:"itemQuantity"`
	DiscountCode *string `json:"discountCode"`
	OnSale       bool    `json:"isOnSale"`
}

func (s *ItemSource) mutate(ctx context.Context, method, path string, in interface{}, out interface{}) error {
	var body []byte
	var code int
	target := s.session.url(path)
	var req *dataflow.DataFlow
	switch method {
	case http.MethodPost:
		req = gout.POST(target)
	case http.MethodPut:
		req = gout.PUT(target)
	case http.MethodDelete:
		req = gout.DELETE(target)
	default:
		req = gout.GET(target)
	}
	req = req.
		WithContext(ctx).
		SetTimeout(s.session.timeout).
		SetHeader(s.session.authHeader())
	if in != nil {
		req = req.SetJSON(in)
	}
	if err := req.BindBody(&body).Code(&code).Do(); err != nil {
		return errors.Wrap(err, "request failed")
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return decodeError(code, body)
	}
	if out != nil {
		return errors.Wrap(json.Unmarshal(body, out), "decode response")
	}
	return nil
}

func (s *ItemSource) Create(ctx context.Context, in ItemInput) (*Item, error) {
	var w wireItem
	if err := s.mutate(ctx, http.MethodPost, "/items", in, &w); err != nil {
		return nil, err
	}
	item := w.toItem()
	return &item, nil
}

func (s *ItemSource) Update(ctx context.Context, id int64, in ItemInput) (*Item, error) {
	var w wireItem
	if err := s.mutate(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), in, &w); err != nil {
		return nil, err
	}
	item := w.toItem()
	return &item, nil
}

func (s *ItemSource) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
}

// OrderSource fetches and executes orders over HTTP.
type OrderSource struct {
	session  *Session
	strategy Strategy
}

func NewOrderSource(session *Session, strategy Strategy) *OrderSource {
	return &OrderSource{session: session, strategy: strategy}
}

// Fetch implements Source for orders.
func (s *OrderSource) Fetch(ctx context.Context, state QueryState) ([]Order, error) {
	params := gout.H{}
	if s.strategy == StrategyServer {
		params = queryParams(state)
	}
	var body []byte
	var code int
	req := gout.GET(s.session.url("/orders")).
		WithContext(ctx).
		SetTimeout(s.session.timeout).
		SetHeader(s.session.authHeader())
	if len(params) > 0 {
		req = req.SetQuery(params)
	}
	if err := req.BindBody(&body).Code(&code).Do(); err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	if code != http.StatusOK {
		return nil, decodeError(code, body)
	}
	var wires []wireOrder
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	orders := make([]Order, 0, len(wires))
	for _, w := range wires {
		orders = append(orders, w.toOrder())
	}
	return orders, nil
}

// Get fetches one order, ErrOrderNotFound when it does not exist.
func (s *OrderSource) Get(ctx context.Context, id int64) (*Order, error) {
	var body []byte
	var code int
	err := gout.GET(s.session.url(fmt.Sprintf("/orders/%d", id))).
		WithContext(ctx).
		SetTimeout(s.session.timeout).
		SetHeader(s.session.authHeader()).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	if code != http.StatusOK {
		return nil, decodeError(code, body)
	}
	var w wireOrder
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	order := w.toOrder()
	return &order, nil
}

// Execute asks the server to flip a pending order to executed. A repeat
// call returns ErrOrderAlreadyExecuted; the order never double-applies.
func (s *OrderSource) Execute(ctx context.Context, id int64) error {
	var body []byte
	var code int
	err := gout.POST(s.session.url(fmt.Sprintf("/orders/%d/execute", id))).
		WithContext(ctx).
		SetTimeout(s.session.timeout).
		SetHeader(s.session.authHeader()).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	if code != http.StatusOK {
		return decodeError(code, body)
	}
	return nil
}

// Summary is the aggregated revenue view over executed orders.
type Summary struct {
	Count    int64 `json:"count"`
	Pending  int64 `json:"pending"`
	Executed int64 `json:"executed"`
	Revenue  int64 `json:"revenue"`
	Mean     int64 `json:"mean"`
	Median   int64 `json:"median"`
}

func (s *OrderSource) Summary(ctx context.Context) (*Summary, error) {
	var body []byte
	var code int
	err := gout.GET(s.session.url("/orders/summary")).
		WithContext(ctx).
		SetTimeout(s.session.timeout).
		SetHeader(s.session.authHeader()).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	if code != http.StatusOK {
		return nil, decodeError(code, body)
	}
	var sum Summary
	if err := json.Unmarshal(body, &sum); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &sum, nil
}
