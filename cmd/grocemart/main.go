package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/grocemate/config"
	"github.com/jayjaytrn/grocemate/internal/auth"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/internal/fulfillment"
	"github.com/jayjaytrn/grocemate/internal/handlers"
	"github.com/jayjaytrn/grocemate/internal/middleware"
	"github.com/jayjaytrn/grocemate/logging"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	cfg := config.GetConfig()

	database, err := db.NewManager(cfg.DatabaseURI, cfg.MigrationsDir)
	if err != nil {
		logger.Fatalw("failed to init database", "error", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := auth.EnsureAdmin(ctx, database, "Admin", cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Errorw("failed to provision default admin", "error", err)
	} else if created {
		logger.Infow("default admin created", "email", cfg.AdminEmail)
	}

	fm := fulfillment.NewManager(database, cfg.OrderQueueSize, cfg.OrderProcessingDelay, logger)
	h := handlers.NewHandler(database, cfg, logger, fm)

	srv := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           initRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fm.StartOrderProcessing(gctx)
	})
	g.Go(func() error {
		logger.Infow("starting server", "address", cfg.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		logger.Errorw("server stopped with error", "error", err)
		return
	}
	logger.Info("server stopped")
}

// route applies the route's own middlewares inside the shared ones.
func route(h *handlers.Handler, f http.HandlerFunc, mws ...middleware.Middleware) http.HandlerFunc {
	chain := make([]middleware.Middleware, 0, len(mws)+3)
	chain = append(chain, mws...)
	chain = append(chain,
		middleware.ReadWithCompression,
		middleware.WriteWithCompression,
		middleware.WithLogging,
	)
	return middleware.Conveyor(f, h.Logger, chain...).ServeHTTP
}

func initRouter(h *handlers.Handler) *chi.Mux {
	user := middleware.ValidateAuth(h.Config.JWTSecret)

	r := chi.NewRouter()

	r.Get(`/api/health`, route(h, h.Health))
	r.Head(`/api/health`, route(h, h.Health))

	r.Post(`/api/auth/register`, route(h, h.Register, middleware.ValidateCredentials))
	r.Post(`/api/auth/login`, route(h, h.Login, middleware.ValidateCredentials))

	r.Get(`/api/users/profile`, route(h, h.Profile, user))
	r.Put(`/api/users/profile`, route(h, h.UpdateProfile, user))
	r.Put(`/api/users/change-password`, route(h, h.ChangePassword, user))
	r.Put(`/api/users/avatar`, route(h, h.UpdateAvatar, user))

	r.Get(`/api/categories`, route(h, h.Categories))
	r.Get(`/api/categories/{id}`, route(h, h.Category))
	r.Get(`/api/products`, route(h, h.Products))
	r.Get(`/api/products/{id}`, route(h, h.Product))

	r.Post(`/api/orders`, route(h, h.CreateOrder, user))
	r.Get(`/api/orders`, route(h, h.MyOrders, user))
	r.Get(`/api/orders/{id}`, route(h, h.MyOrder, user))

	r.Route(`/api/admin`, func(r chi.Router) {
		admin := func(f http.HandlerFunc) http.HandlerFunc {
			return route(h, f, middleware.RequireAdmin, user)
		}

		r.Get(`/users`, admin(h.AdminUsers))
		r.Post(`/users`, admin(h.AdminCreateUser))
		r.Put(`/users/{id}`, admin(h.AdminUpdateUserRole))
		r.Delete(`/users/{id}`, admin(h.AdminDeleteUser))

		r.Get(`/categories`, admin(h.Categories))
		r.Post(`/categories`, admin(h.AdminCreateCategory))
		r.Put(`/categories/{id}`, admin(h.AdminUpdateCategory))
		r.Delete(`/categories/{id}`, admin(h.AdminDeleteCategory))

		r.Get(`/products`, admin(h.Products))
		r.Post(`/products`, admin(h.AdminCreateProduct))
		r.Put(`/products/{id}`, admin(h.AdminUpdateProduct))
		r.Delete(`/products/{id}`, admin(h.AdminDeleteProduct))

		r.Get(`/orders`, admin(h.AdminOrders))
		r.Get(`/orders/find/{orderNumber}`, admin(h.AdminFindOrder))
		r.Get(`/orders/{id}`, admin(h.AdminOrder))
		r.Put(`/orders/{id}/status`, admin(h.AdminUpdateOrderStatus))
	})

	return r
}
