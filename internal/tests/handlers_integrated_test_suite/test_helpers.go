//go:build integration

package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rogerio-castellano/warehouse-inventory/internal/config"
	"github.com/rogerio-castellano/warehouse-inventory/internal/db"
	handler "github.com/rogerio-castellano/warehouse-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/warehouse-inventory/internal/http/router"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

const defaultMongoTestImage = "docker.io/library/mongo:7.0"

var (
	client      *mongo.Client
	collection  *mongo.Collection
	productRepo *repo.MongoProductRepository
)

// TestMain uses MONGO_URI when set, otherwise it starts a throwaway container.
func TestMain(m *testing.M) {
	ctx := context.Background()

	uri := os.Getenv("MONGO_URI")
	var container testcontainers.Container
	if uri == "" {
		var err error
		container, uri, err = startMongo(ctx)
		if err != nil {
			log.Fatalf("start mongo test container: %v", err)
		}
	}

	cfg := &config.Config{
		MongoURI:        uri,
		MongoDatabase:   fmt.Sprintf("warehouse_it_%d", time.Now().UnixNano()),
		MongoCollection: "products",
	}
	var err error
	client, collection, err = db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	productRepo = repo.NewMongoProductRepository(collection, 5*time.Second)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	code := m.Run()

	_ = client.Database(cfg.MongoDatabase).Drop(ctx)
	_ = client.Disconnect(ctx)
	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

func startMongo(ctx context.Context) (testcontainers.Container, string, error) {
	image := os.Getenv("MONGO_TEST_IMAGE")
	if strings.TrimSpace(image) == "" {
		image = defaultMongoTestImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForListeningPort("27017/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container, "", fmt.Errorf("resolve mongo host: %w", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		return container, "", fmt.Errorf("resolve mongo port: %w", err)
	}
	return container, "mongodb://" + net.JoinHostPort(host, port.Port()), nil
}

func newRouter() http.Handler {
	return router.NewRouter(router.Deps{
		Products: handler.NewProductHandler(service.NewProductService(productRepo)),
		Reports:  handler.NewReportHandler(service.NewReportService(productRepo)),
	})
}

// clearAllProducts empties the collection. The id counter is kept, as it
// would be in production.
func clearAllProducts() {
	if _, err := collection.DeleteMany(context.Background(), bson.D{}); err != nil {
		log.Printf("clear products: %v", err)
	}
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	return send(r, http.MethodPost, "/products", string(body))
}

func send(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listProducts(r http.Handler, query string) []handler.ProductResponse {
	target := "/products"
	if query != "" {
		target += "?" + query
	}
	w := send(r, http.MethodGet, target, "")

	var products []handler.ProductResponse
	_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&products)
	return products
}

func names(products []handler.ProductResponse) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
