package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shopdesk/backend/internal/application/catalog"
	orderingapp "github.com/shopdesk/backend/internal/application/ordering"
	reportapp "github.com/shopdesk/backend/internal/application/report"
	transferapp "github.com/shopdesk/backend/internal/application/transfer"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/infrastructure/persistence"
	"github.com/shopdesk/backend/internal/interfaces/http/handler"
	"github.com/shopdesk/backend/internal/interfaces/http/middleware"
	"github.com/shopdesk/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Customer{},
		&catalog.Product{},
		&ordering.Order{},
		&ordering.LineItem{},
	))

	customerRepo := persistence.NewGormCustomerRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	reportRepo := persistence.NewGormReportRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	customerHandler := handler.NewCustomerHandler(catalogapp.NewCustomerService(customerRepo, orderRepo))
	productHandler := handler.NewProductHandler(catalogapp.NewProductService(productRepo, orderRepo))
	orderHandler := handler.NewOrderHandler(
		orderingapp.NewOrderService(orderRepo),
		orderingapp.NewCheckoutService(txScope),
		orderingapp.NewReconcileService(txScope),
	)
	reportHandler := handler.NewReportHandler(reportapp.NewReportService(reportRepo))
	transferHandler := handler.NewTransferHandler(
		transferapp.NewExportService(customerRepo, productRepo, orderRepo),
		transferapp.NewImportService(customerRepo, productRepo, orderRepo),
	)

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/customers", customerHandler.Create)
	catalogRoutes.GET("/customers", customerHandler.List)
	catalogRoutes.GET("/customers/:id", customerHandler.GetByID)
	catalogRoutes.PUT("/customers/:id", customerHandler.Update)
	catalogRoutes.DELETE("/customers/:id", customerHandler.Delete)
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	orderingRoutes := router.NewDomainGroup("ordering", "/ordering")
	orderingRoutes.POST("/orders/checkout", orderHandler.Checkout)
	orderingRoutes.POST("/orders/cart-total", orderHandler.CartTotal)
	orderingRoutes.GET("/orders", orderHandler.List)
	orderingRoutes.GET("/orders/:id", orderHandler.GetByID)
	orderingRoutes.PATCH("/orders/:id", orderHandler.Update)
	orderingRoutes.PUT("/orders/:id/reconcile", orderHandler.Reconcile)
	orderingRoutes.DELETE("/orders/:id", orderHandler.Delete)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/top-customers", reportHandler.TopCustomers)
	reportRoutes.GET("/orders-per-day", reportHandler.OrdersPerDay)
	reportRoutes.GET("/customer-connections", reportHandler.CustomerConnections)

	transferRoutes := router.NewDomainGroup("transfer", "/transfer")
	transferRoutes.GET("/customers/export", transferHandler.ExportCustomers)
	transferRoutes.GET("/products/export", transferHandler.ExportProducts)
	transferRoutes.GET("/orders/export", transferHandler.ExportOrders)
	transferRoutes.POST("/customers/import", transferHandler.ImportCustomers)
	transferRoutes.POST("/products/import", transferHandler.ImportProducts)
	transferRoutes.POST("/orders/import", transferHandler.ImportOrders)

	r.Register(catalogRoutes).
		Register(orderingRoutes).
		Register(reportRoutes).
		Register(transferRoutes)
	r.Setup()

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func createCustomer(t *testing.T, engine *gin.Engine, name, email string) uuid.UUID {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/catalog/customers", gin.H{
		"name":  name,
		"email": email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp catalogapp.CustomerResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	return resp.ID
}

func createProduct(t *testing.T, engine *gin.Engine, name string, price string, stock int64) uuid.UUID {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/catalog/products", gin.H{
		"name":  name,
		"price": price,
		"stock": stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp catalogapp.ProductResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	return resp.ID
}

func TestCustomerEndpoints(t *testing.T) {
	engine := setupServer(t)

	t.Run("create and fetch", func(t *testing.T) {
		id := createCustomer(t, engine, "Alice", "alice@example.com")

		w := doJSON(t, engine, http.MethodGet, "/api/v1/catalog/customers/"+id.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp catalogapp.CustomerResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
		assert.Equal(t, "Alice", resp.Name)
	})

	t.Run("duplicate email yields 409", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/catalog/customers", gin.H{
			"name":  "Other Alice",
			"email": "alice@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ALREADY_EXISTS", env.Error.Code)
	})

	t.Run("invalid phone rejected by binding", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/catalog/customers", gin.H{
			"name":  "Bob",
			"email": "bob@example.com",
			"phone": "12345",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed id yields 400", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/catalog/customers/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/catalog/customers/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCheckoutEndpoints(t *testing.T) {
	engine := setupServer(t)
	customerID := createCustomer(t, engine, "Alice", "alice@example.com")
	coffeeID := createProduct(t, engine, "Coffee", "5.00", 10)

	t.Run("cart total does not touch stock", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/ordering/orders/cart-total", gin.H{
			"lines": []gin.H{{"product_id": coffeeID, "quantity": 2}},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp orderingapp.CartTotalResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
		assert.Equal(t, "10", resp.TotalAmount.String())

		w = doJSON(t, engine, http.MethodGet, "/api/v1/catalog/products/"+coffeeID.String(), nil)
		var product catalogapp.ProductResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &product))
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("checkout commits order and stock", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/ordering/orders/checkout", gin.H{
			"customer_id": customerID,
			"lines":       []gin.H{{"product_id": coffeeID, "quantity": 3}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp orderingapp.CheckoutResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
		assert.Equal(t, "15", resp.TotalAmount.String())

		w = doJSON(t, engine, http.MethodGet, "/api/v1/ordering/orders/"+resp.OrderID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var order orderingapp.OrderResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
		assert.Equal(t, ordering.OrderStatusNew, order.Status)
		require.Len(t, order.Items, 1)

		w = doJSON(t, engine, http.MethodGet, "/api/v1/catalog/products/"+coffeeID.String(), nil)
		var product catalogapp.ProductResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &product))
		assert.Equal(t, int64(7), product.Stock)
	})

	t.Run("empty cart yields 422", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/ordering/orders/checkout", gin.H{
			"customer_id": customerID,
			"lines":       []gin.H{},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "EMPTY_CART", env.Error.Code)
	})

	t.Run("oversell yields 422", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/ordering/orders/checkout", gin.H{
			"customer_id": customerID,
			"lines":       []gin.H{{"product_id": coffeeID, "quantity": 100}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
	})
}

func TestReconcileEndpoint(t *testing.T) {
	engine := setupServer(t)
	customerID := createCustomer(t, engine, "Alice", "alice@example.com")
	coffeeID := createProduct(t, engine, "Coffee", "5.00", 10)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/ordering/orders/checkout", gin.H{
		"customer_id": customerID,
		"lines":       []gin.H{{"product_id": coffeeID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var placed orderingapp.CheckoutResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &placed))
	orderPath := "/api/v1/ordering/orders/" + placed.OrderID.String()

	t.Run("raises quantity while status is New", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPut, orderPath+"/reconcile", gin.H{
			"status": "Paid",
			"lines":  []gin.H{{"product_id": coffeeID, "quantity": 5}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var order orderingapp.OrderResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
		assert.Equal(t, ordering.OrderStatusPaid, order.Status)
		assert.Equal(t, "25", order.TotalAmount.String())

		w = doJSON(t, engine, http.MethodGet, "/api/v1/catalog/products/"+coffeeID.String(), nil)
		var product catalogapp.ProductResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &product))
		assert.Equal(t, int64(5), product.Stock)
	})

	t.Run("structural edit on a paid order yields 422", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPut, orderPath+"/reconcile", gin.H{
			"status": "Paid",
			"lines":  []gin.H{{"product_id": coffeeID, "quantity": 7}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ITEMS_LOCKED", env.Error.Code)
	})

	t.Run("partial header patch", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPatch, orderPath, gin.H{
			"status": "Shipped",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var order orderingapp.OrderResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
		assert.Equal(t, ordering.OrderStatusShipped, order.Status)
		assert.Equal(t, "25", order.TotalAmount.String())
	})
}

func TestReportEndpoints(t *testing.T) {
	engine := setupServer(t)
	aliceID := createCustomer(t, engine, "Alice", "alice@example.com")
	bobID := createCustomer(t, engine, "Bob", "bob@example.com")
	coffeeID := createProduct(t, engine, "Coffee", "5.00", 100)

	for _, customerID := range []uuid.UUID{aliceID, aliceID, bobID} {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/ordering/orders/checkout", gin.H{
			"customer_id": customerID,
			"lines":       []gin.H{{"product_id": coffeeID, "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("top customers", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/reports/top-customers?top_n=5", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rows []reportapp.TopCustomerResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, aliceID, rows[0].CustomerID)
	})

	t.Run("orders per day", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/reports/orders-per-day", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rows []reportapp.OrdersPerDayResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, int64(3), rows[0].OrderCount)
	})

	t.Run("customer connections", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/reports/customer-connections", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rows []reportapp.CustomerConnectionResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &rows))
		require.Len(t, rows, 1)
	})
}

func TestTransferEndpoints(t *testing.T) {
	engine := setupServer(t)
	createCustomer(t, engine, "Alice", "alice@example.com")
	createProduct(t, engine, "Coffee", "5.00", 10)

	t.Run("export customers as csv", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transfer/customers/export?format=csv", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "customers.csv")
		assert.Contains(t, w.Body.String(), "alice@example.com")
	})

	t.Run("export products as json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transfer/products/export?format=json", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, w.Body.String(), "Coffee")
	})

	t.Run("unknown format yields 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transfer/customers/export?format=xml", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("import products from csv upload", func(t *testing.T) {
		csv := "name,price,stock\nTea,2.50,20\nSugar,1.00,50\n"

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "products.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(csv))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer/products/import?format=csv", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result transferapp.ImportResult
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &result))
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.ImportedRows)
		assert.Empty(t, result.Errors)

		listw := doJSON(t, engine, http.MethodGet, "/api/v1/catalog/products?search=Tea", nil)
		var products []catalogapp.ProductResponse
		require.NoError(t, json.Unmarshal(decode(t, listw).Data, &products))
		require.Len(t, products, 1)
		assert.Equal(t, int64(20), products[0].Stock)
	})

	t.Run("missing upload yields 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer/customers/import?format=csv", strings.NewReader(""))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
