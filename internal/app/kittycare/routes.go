// Package kittycare предоставляет маршруты для основного приложения.
package kittycare

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kittycareapp/kittycare-server/internal/http/handlers/auth/signin"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/auth/signup"
	catcreate "github.com/kittycareapp/kittycare-server/internal/http/handlers/cat/create"
	catlist "github.com/kittycareapp/kittycare-server/internal/http/handlers/cat/list"
	catremove "github.com/kittycareapp/kittycare-server/internal/http/handlers/cat/remove"
	catupdate "github.com/kittycareapp/kittycare-server/internal/http/handlers/cat/update"
	chatai "github.com/kittycareapp/kittycare-server/internal/http/handlers/chat/ai"
	chatlist "github.com/kittycareapp/kittycare-server/internal/http/handlers/chat/list"
	chatmessage "github.com/kittycareapp/kittycare-server/internal/http/handlers/chat/message"
	chatrecommend "github.com/kittycareapp/kittycare-server/internal/http/handlers/chat/recommend"
	convcreate "github.com/kittycareapp/kittycare-server/internal/http/handlers/conversation/create"
	convremove "github.com/kittycareapp/kittycare-server/internal/http/handlers/conversation/remove"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/health"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/payment/paypalcancel"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/payment/paypalcatalog"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/payment/paypalcreate"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/payment/stripecancel"
	"github.com/kittycareapp/kittycare-server/internal/http/handlers/payment/stripecreate"
	subcreate "github.com/kittycareapp/kittycare-server/internal/http/handlers/subscription/create"
	subread "github.com/kittycareapp/kittycare-server/internal/http/handlers/subscription/read"
	subremove "github.com/kittycareapp/kittycare-server/internal/http/handlers/subscription/remove"
	subupdate "github.com/kittycareapp/kittycare-server/internal/http/handlers/subscription/update"
	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/lib/jwt"
	authservice "github.com/kittycareapp/kittycare-server/internal/services/auth"
	catservice "github.com/kittycareapp/kittycare-server/internal/services/cat"
	chatservice "github.com/kittycareapp/kittycare-server/internal/services/chat"
	paymentservice "github.com/kittycareapp/kittycare-server/internal/services/payment"
	subservice "github.com/kittycareapp/kittycare-server/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	catService *catservice.CatService,
	chatService *chatservice.ChatService,
	paymentService *paymentservice.PaymentService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/signup", signup.New(logger, authService).ServeHTTP)
		r.Post("/auth/signin", signin.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/subscriptions", subread.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", subupdate.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, subscriptionService).ServeHTTP)

			r.Get("/cats", catlist.New(logger, catService).ServeHTTP)
			r.Post("/cats", catcreate.New(logger, catService).ServeHTTP)
			r.Put("/cats/{id}", catupdate.New(logger, catService).ServeHTTP)
			r.Delete("/cats/{id}", catremove.New(logger, catService).ServeHTTP)

			r.Get("/conversations", chatlist.New(logger, chatService).ServeHTTP)
			r.Post("/conversations", convcreate.New(logger, chatService).ServeHTTP)
			r.Delete("/conversations/{id}", convremove.New(logger, chatService).ServeHTTP)
			r.Post("/conversations/messages", chatmessage.New(logger, chatService).ServeHTTP)

			r.Post("/openai/chat", chatai.New(logger, chatService).ServeHTTP)
			r.Post("/openai/recommendations", chatrecommend.New(logger, chatService).ServeHTTP)

			r.Post("/payments/stripe/subscription", stripecreate.New(logger, paymentService).ServeHTTP)
			r.Delete("/payments/stripe/subscription", stripecancel.New(logger, paymentService).ServeHTTP)
			r.Post("/payments/paypal/subscription", paypalcreate.New(logger, paymentService).ServeHTTP)
			r.Post("/payments/paypal/subscription/{id}/cancel", paypalcancel.New(logger, paymentService).ServeHTTP)

			catalog := paypalcatalog.New(logger, paymentService)
			r.Get("/payments/paypal/products", catalog.ListProducts)
			r.Post("/payments/paypal/products", catalog.CreateProduct)
			r.Get("/payments/paypal/plans", catalog.ListPlans)
			r.Post("/payments/paypal/plans", catalog.CreatePlan)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
