package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artisan/internal/config"
	handlers "artisan/internal/handlers/shared"
	"artisan/internal/metrics"
	"artisan/internal/middleware"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/repositories/memory"
	"artisan/internal/services"
	"artisan/pkg/cache"
	"artisan/pkg/email"
	"artisan/pkg/logger"
	"artisan/pkg/payment"
	"artisan/pkg/sms"
	"artisan/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testWebhookSecret = "whsec_handlers"
	testInboundKey    = "inbound-key"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	orders interfaces.OrderRepository
	posts  interfaces.BlogPostRepository
}

func testConfig() *config.Config {
	return &config.Config{
		App: &config.AppConfig{Name: "MikelsEarth", Version: "test", Environment: "test", FrontendURL: "https://shop.test"},
		Email: &config.EmailConfig{
			Provider:              "log",
			SenderEmail:           "noreply@shop.test",
			SenderName:            "Mikel's Earth",
			OwnerEmail:            "owner@shop.test",
			BlogNotificationEmail: "blog@shop.test",
		},
		SMS: &config.SMSConfig{Provider: "log"},
		Payment: &config.PaymentConfig{
			Stripe:   &config.StripeConfig{SecretKey: "sk_test_handlers", WebhookSecret: testWebhookSecret},
			Currency: "eur",
		},
		Storage: &config.StorageConfig{Provider: "none"},
		Blog: &config.BlogConfig{
			AdminUsername:     "admin",
			AdminPassword:     "s3cret",
			InboundWebhookKey: testInboundKey,
			DefaultAuthor:     "Mikel's Earth",
			PublicPageSize:    10,
			AdminPageSize:     20,
			ExcerptLength:     120,
		},
		Shop: &config.ShopConfig{
			CouponPrefix:          "MIKELS10",
			CouponDiscountPercent: 10,
			FallbackCouponCode:    "BIENVENIDA10",
			DefaultCountry:        "España",
		},
		Security: &config.SecurityConfig{
			JWTSecret:          "handlers-secret",
			JWTAccessTokenTTL:  24 * time.Hour,
			RateLimitPerMinute: 100,
		},
	}
}

// newTestServer wires the real services over in-memory repositories, with
// log-only email and chat providers.
func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	log := logger.NewNop()
	m := metrics.New()
	memCache := cache.NewMemoryCache()

	couponRepo := memory.NewCouponRepository()
	orderRepo := memory.NewOrderRepository()
	subscriptionRepo := memory.NewSubscriptionRepository()
	postRepo := memory.NewBlogPostRepository()

	notifications, err := services.NewNotificationService(email.NewLogProvider(log), sms.NewLogProvider(log), cfg, m, log)
	require.NoError(t, err)

	provider := payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)
	couponService := services.NewCouponService(couponRepo, cfg.Shop, m, log)
	newsletterService := services.NewNewsletterService(couponService, notifications, cfg.Shop, log)
	checkoutService := services.NewCheckoutService(orderRepo, subscriptionRepo, couponService, provider, cfg, m, log)
	webhookService := services.NewPaymentWebhookService(provider, orderRepo, subscriptionRepo, couponService, notifications, memCache, m, log)
	blogService := services.NewBlogService(postRepo, memCache, notifications, cfg.Blog, log)
	mediaService := services.NewMediaService(nil, cfg.Storage, log)
	ingestionService := services.NewBlogIngestionService(postRepo, blogService, mediaService, notifications, cfg.Blog, log)
	authService := services.NewAuthService(cfg.Blog, cfg.Security, memCache, log)

	router := gin.New()
	limit := middleware.RateLimitMiddleware(memCache, cfg.Security.RateLimitPerMinute, m, log)

	routes.SetupShopRoutes(router.Group("/api"), limit,
		handlers.NewCouponHandler(couponService),
		handlers.NewNewsletterHandler(newsletterService),
		handlers.NewPaymentHandler(checkoutService, webhookService, cfg.Shop.DefaultCountry),
		handlers.NewFormsHandler(services.NewFormsService(notifications, newsletterService, log)),
	)
	routes.SetupBlogRoutes(router,
		handlers.NewBlogHandler(blogService, cfg.Blog.PublicPageSize),
		handlers.NewInboundEmailHandler(ingestionService, cfg.Blog.InboundWebhookKey, cfg.IsProduction(), log),
	)
	routes.SetupAdminRoutes(router, middleware.AdminRequired(authService), limit,
		handlers.NewAdminHandler(authService, blogService, mediaService, cfg.Blog.AdminPageSize),
		handlers.NewOrderHandler(services.NewOrderService(orderRepo, subscriptionRepo, log), cfg.Blog.AdminPageSize),
	)

	return &testServer{router: router, orders: orderRepo, posts: postRepo}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	case []byte:
		payload = b
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) map[string]string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/admin/login", gin.H{"username": "admin", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	return map[string]string{"Authorization": "Bearer " + resp["token"].(string)}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
