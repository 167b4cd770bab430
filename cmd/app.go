package cmd

import (
	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/loader"
	"rainbow-recipes/core/logger"
	"rainbow-recipes/core/middleware/auth"
	"rainbow-recipes/core/middleware/rayid"
	"rainbow-recipes/core/storage"
	"rainbow-recipes/feature/catalog"
	"rainbow-recipes/feature/listings"
	"rainbow-recipes/feature/recipes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "rainbow-recipes/docs/swagger"
)

// newApp assembles the HTTP application. store may be nil, which disables the merge audit trail.
func newApp(rt *runtime, store storage.Client) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           rt.cfg.Server.ReadTimeout(),
		WriteTimeout:          rt.cfg.Server.WriteTimeout(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Write(c, logger.WithRayID(rt.log, c), err)
		},
	})

	// RayID first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(rt.log, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.APIKey(rt.cfg.Server.ApiKey))
	app.Use(auth.Sessions(rt.cfg.Auth.JWTSecret))

	var audit *catalog.AuditLog
	if store != nil {
		audit = catalog.NewAuditLog(store, rt.cfg.Storage.Bucket, rt.log)
	}
	catalogFeature := catalog.NewFeature(rt.db, rt.log, audit)
	items := catalogFeature.Service()

	mgr := loader.NewManager()
	mgr.Register(catalogFeature)
	mgr.Register(listings.NewFeature(rt.db, rt.log, items))
	mgr.Register(recipes.NewFeature(rt.db, rt.log, items))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, err
	}
	rt.log.Info("Features loaded", zap.Strings("features", loaded))
	return app, nil
}
