package app

import (
	"context"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/handler"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/provider/supabase"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/validate"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/config"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/logger"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/middleware"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/provision"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	idp, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return nil, nil, err
	}

	validator := validate.New(validate.DomainPolicy{
		Allow: cfg.AllowedEmailDomains,
		Deny:  cfg.DeniedEmailDomains,
	})

	// ----------------------------
	// Provisioning pipeline
	// ----------------------------

	queue := provision.NewRedisQueue(infra.Redis.Client)
	if err := queue.Recover(ctx); err != nil {
		return nil, nil, err
	}

	provisioner := provision.NewProvisioner(provision.NewDBStore(infra.DB))
	worker := provision.NewWorker(queue, provisioner)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	// ----------------------------
	// Router
	// ----------------------------

	authHandler := handler.NewHandler(idp, validator, queue)
	authMiddleware := middleware.NewAuthMiddleware(idp)

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))

	// ----------------------------
	// Cleanup
	// ----------------------------

	cleanup := func() error {
		stopWorker()
		worker.Wait()
		logger.Info("provisioning worker stopped", nil)
		return infra.DB.Close()
	}

	return router, cleanup, nil
}
