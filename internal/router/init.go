package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/container"
	"github.com/oksasatya/smart-living/internal/domain/repository"
	"github.com/oksasatya/smart-living/internal/infrastructure/completion"
	handlers "github.com/oksasatya/smart-living/internal/interface/http"
	"github.com/oksasatya/smart-living/internal/router/modules"
	"github.com/oksasatya/smart-living/pkg/helpers"
	"github.com/oksasatya/smart-living/pkg/response"
)

type appDeps struct {
	Onboarding     *handlers.OnboardingHandler
	Profile        *handlers.ProfileHandler
	Dashboard      *handlers.DashboardHandler
	Recommendation *handlers.RecommendationHandler
	Contact        *handlers.ContactHandler
	Cookies        *helpers.Manager
}

func buildDeps() appDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	profiles := application.NewProfileStorage(container.GetKVStore())

	// Without a base URL the recommender has no completer and every
	// dashboard load falls back to the static list.
	var completer application.Completer
	if cfg.CompletionBaseURL != "" {
		client, err := completion.New(cfg.CompletionBaseURL, cfg.CompletionPath, cfg.CompletionAPIKey)
		if err != nil {
			logger.WithError(err).Warn("completion client disabled")
		} else {
			completer = client
		}
	} else {
		logger.Info("COMPLETION_BASE_URL not set, dashboard uses fallback recommendations")
	}
	recommender := application.NewRecommendationService(completer, cfg.CompletionModel, cfg.CompletionTemperature,
		cfg.CompletionTimeout, cfg.RecommendationCity, logger)

	var publisher application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		publisher = p
	}
	mail := application.NewMailService(publisher, cfg.Brand(), cfg.ContactEmail, cfg.MailSendEnabled, logger)

	onboarding := application.NewOnboardingService(container.GetKVStore(), profiles, mail, logger)
	onboarding.SessionTTL = cfg.OnboardingSessionTTL
	profileSvc := application.NewProfileService(profiles, cfg.ProfileSaveRedirectDelay, logger)
	dashboard := application.NewDashboardService(profiles, recommender, logger)

	return appDeps{
		Onboarding:     handlers.NewOnboardingHandler(onboarding, logger),
		Profile:        handlers.NewProfileHandler(profileSvc, logger),
		Dashboard:      handlers.NewDashboardHandler(dashboard, logger),
		Recommendation: handlers.NewRecommendationHandler(recommender, logger),
		Contact:        handlers.NewContactHandler(mail, logger),
		Cookies:        helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewOnboardingModule(deps.Onboarding, deps.Cookies))
	r.Add(modules.NewProfileModule(deps.Profile, deps.Cookies))
	r.Add(modules.NewDashboardModule(deps.Dashboard, deps.Cookies))
	r.Add(modules.NewRecommendationModule(deps.Recommendation))
	r.Add(modules.NewContactModule(deps.Contact))
	r.Add(ModuleFunc(registerHealth))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// registerHealth mounts GET /api/healthz, which reads a missing key from the
// store. Not-found is the healthy answer.
func registerHealth(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		_, err := container.GetKVStore().Get(ctx, "healthz")
		if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
			container.GetLogger().WithError(err).Warn("health check failed")
			response.Error[any](c, http.StatusServiceUnavailable, "storage unavailable", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"storage": container.GetConfig().StorageBackend}, "ok", nil)
	})
}
