package web_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ocw/internal/composer"
	"github.com/vladislavdragonenkov/ocw/internal/confirm"
	"github.com/vladislavdragonenkov/ocw/internal/domain"
	"github.com/vladislavdragonenkov/ocw/internal/service/ordergateway"
	"github.com/vladislavdragonenkov/ocw/internal/web"
)

func newWebServer(t *testing.T, gw *ordergateway.MockGateway) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entry := logger.WithField("component", "test")

	sessions := web.NewSessionRegistry(func() *composer.Composer {
		return composer.NewComposer(gw, entry, nil)
	})
	controller := confirm.NewController(gw, entry, nil)

	srv := httptest.NewServer(web.NewServer(sessions, controller, entry).Router())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func validForm() url.Values {
	return url.Values{
		"customer_name":  {"Jane Doe"},
		"customer_email": {"jane@x.com"},
		"product_id":     {"1"},
		"quantity":       {"3"},
	}
}

func TestShowForm(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	gw.Products = []domain.Product{{ID: 1, Name: "Widget", Cost: 1000}}

	srv := newWebServer(t, gw)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Place Order")
	require.Contains(t, body, "Widget - ₹10.00")
	require.Contains(t, body, "₹0.00", "empty draft renders zero total")

	// Сессия выдана и закреплена за посетителем.
	u, _ := url.Parse(srv.URL)
	var found bool
	for _, cookie := range client.Jar.Cookies(u) {
		if cookie.Name == web.SessionCookie {
			found = true
		}
	}
	require.True(t, found, "session cookie must be set")
}

func TestSubmitOrder_Success(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	gw.Products = []domain.Product{{ID: 1, Name: "Widget", Cost: 1000}}
	gw.CreateResult = domain.Order{OrderID: "abc", Status: domain.OrderStatusPlaced}

	srv := newWebServer(t, gw)
	client := newClient(t)

	// Заводим сессию до отправки.
	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	readBody(t, resp)

	resp, err = client.PostForm(srv.URL+"/orders", validForm())
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	// После редиректа — flash и пустая форма.
	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Contains(t, body, "Order placed successfully! Check your email for confirmation.")
	require.Contains(t, body, "/confirm-order/abc")
	require.NotContains(t, body, "Jane Doe", "draft resets after success")

	require.Equal(t, domain.CreateOrderRequest{
		CustomerName:  "Jane Doe",
		Quantity:      3,
		ProductID:     1,
		CustomerEmail: "jane@x.com",
		TotalCost:     "30.00",
	}, gw.LastCreate)
}

func TestSubmitOrder_ValidationErrors(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	gw.Products = []domain.Product{{ID: 1, Name: "Widget", Cost: 1000}}

	srv := newWebServer(t, gw)
	client := newClient(t)

	form := url.Values{
		"customer_name":  {"J"},
		"customer_email": {"bad"},
		"product_id":     {""},
		"quantity":       {"0"},
	}
	resp, err := client.PostForm(srv.URL+"/orders", form)
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "Name must be at least 2 characters and contain only letters")
	require.Contains(t, body, "Please enter a valid email address")
	require.Contains(t, body, "Please select a product")
	require.Contains(t, body, "Quantity must be at least 1")

	_, createCalls, _, _ := gw.Calls()
	require.Zero(t, createCalls)
}

func TestSubmitOrder_GatewayFailureKeepsDraft(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	gw.Products = []domain.Product{{ID: 1, Name: "Widget", Cost: 1000}}
	gw.CreateErr = errors.New("boom")

	srv := newWebServer(t, gw)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	readBody(t, resp)

	resp, err = client.PostForm(srv.URL+"/orders", validForm())
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Error placing order. Please try again.")
	require.Contains(t, body, "Jane Doe", "entered data survives the failure")
}

func TestShowConfirmation(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	gw.GetResult = domain.Order{
		OrderID:       "abc",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@x.com",
		Product:       domain.Product{ID: 1, Name: "Widget", Cost: 1000},
		Quantity:      3,
		TotalCost:     3000,
		Status:        domain.OrderStatusPlaced,
	}

	srv := newWebServer(t, gw)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/confirm-order/abc")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Order confirmed! You will receive a confirmation email.")
	require.Contains(t, body, "Order Details")
	require.Contains(t, body, "₹30.00")
	require.Contains(t, body, "jane@x.com")
	require.Contains(t, body, `http-equiv="refresh" content="3;url=/"`)

	// Повторная загрузка страницы не выдаёт новых сетевых вызовов.
	resp, err = client.Get(srv.URL + "/confirm-order/abc")
	require.NoError(t, err)
	readBody(t, resp)

	_, _, getCalls, confirmCalls := gw.Calls()
	require.Equal(t, 1, getCalls)
	require.Equal(t, 1, confirmCalls)
}

func TestShowConfirmation_FetchFailure(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	gw.GetErr = errors.New("service down")

	srv := newWebServer(t, gw)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/confirm-order/abc")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Contains(t, body, "Failed to fetch order details.")
	require.True(t, strings.Contains(body, "notice-error"))
}

func TestSessionRegistry_PruneStale(t *testing.T) {
	gw := ordergateway.NewMockGateway()
	logger := logrus.New()
	entry := logger.WithField("component", "test")

	registry := web.NewSessionRegistry(func() *composer.Composer {
		return composer.NewComposer(gw, entry, nil)
	})

	first := registry.Create()
	registry.Create()
	require.Equal(t, 2, registry.Len())

	// Активная сессия переживает очистку по границе в прошлом.
	require.Zero(t, registry.PruneStale(time.Now().Add(-time.Hour)))
	require.Equal(t, 2, registry.Len())

	require.Equal(t, 2, registry.PruneStale(time.Now().Add(time.Hour)))
	require.Zero(t, registry.Len())

	_, ok := registry.Get(first.ID)
	require.False(t, ok)
}
