package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/motorlot/MotorLot/app/controllers"
	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	v1 := api.Group("/v1")

	// Authentication
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", middleware.RequireAuthenticated, controllers.HandleLogout)
	auth.Get("/me", middleware.RequireAuthenticated, controllers.HandleGetMe)

	// Effective flags for the caller's active organization
	v1.Get("/feature-flags", middleware.RequireOrganization, controllers.HandleGetEffectiveFlags)

	// Platform admin: global flag definitions
	admin := v1.Group("/admin", middleware.RequirePlatformAdmin)
	admin.Get("/feature-flags", controllers.HandleAdminListFeatureFlags)
	admin.Post("/feature-flags", controllers.HandleAdminCreateFeatureFlag)
	admin.Patch("/feature-flags/:id", controllers.HandleAdminUpdateFeatureFlag)

	// Organizations and memberships
	orgs := v1.Group("/organizations", middleware.RequireAuthenticated)
	orgs.Get("/", controllers.HandleListMyOrganizations)
	orgs.Post("/", controllers.HandleCreateOrganization)
	orgs.Post("/:id/activate", controllers.HandleActivateOrganization)
	orgs.Delete("/:id", controllers.HandleDeleteOrganization)
	orgs.Post("/:id/members", controllers.HandleAddMember)
	orgs.Patch("/:id/members/:userId", controllers.HandleUpdateMemberRole)
	orgs.Get("/:id/feature-flags", controllers.HandleListOrganizationOverrides)
	orgs.Post("/:id/feature-flags", controllers.HandleSetOrganizationOverride)
	orgs.Delete("/:id/feature-flags/:key", controllers.HandleRemoveOrganizationOverride)

	// Vehicle inventory, scoped to the active organization
	vehicles := v1.Group("/vehicles", middleware.RequireOrganization)
	vehicles.Get("/", controllers.HandleListVehicles)
	vehicles.Post("/", middleware.RequireOrgRole(models.OrgRoleOwner, models.OrgRoleAdmin, models.OrgRoleMember), controllers.HandleCreateVehicle)
	vehicles.Get("/:uuid", controllers.HandleGetVehicle)
	vehicles.Patch("/:uuid", middleware.RequireOrgRole(models.OrgRoleOwner, models.OrgRoleAdmin, models.OrgRoleMember), controllers.HandleUpdateVehicle)
	vehicles.Delete("/:uuid", middleware.RequireOrgRole(models.OrgRoleOwner, models.OrgRoleAdmin), controllers.HandleDeleteVehicle)
	vehicles.Post("/:uuid/valuation", middleware.RequireOrgRole(models.OrgRoleOwner, models.OrgRoleAdmin, models.OrgRoleMember), controllers.HandleRefreshValuation)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
