package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/database"
	"github.com/motorlot/MotorLot/internal/pkg/session"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Create(user); err != nil {
		if err == repository.ErrDuplicateKey {
			return jsonError(c, fiber.StatusBadRequest, "duplicate_key", "An account with this email already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin verifies credentials and establishes a session. The session
// records the user and their default active organization.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		// Do not reveal whether the account exists
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated", "Invalid credentials")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "insufficient_permissions", "Account is not active")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create session")
	}

	sess.Set(authctx.SessionKeyUserID, user.ID)
	if memberships, err := repos.Organization.ListMembershipsByUser(user.ID); err == nil && len(memberships) > 0 {
		sess.Set(authctx.SessionKeyActiveOrgID, strconv.FormatUint(uint64(memberships[0].OrganizationID), 10))
	}
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save session")
	}

	if db := database.GetDB(); db != nil {
		db.Model(user).Update("last_login_at", time.Now())
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// HandleLogout destroys the caller's session
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load session")
	}
	if err := sess.Destroy(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to destroy session")
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleGetMe returns the caller's resolved auth context
func HandleGetMe(c *fiber.Ctx) error {
	ctx := authctx.FromFiber(c)
	if !ctx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated", "login required")
	}

	response := fiber.Map{
		"user": fiber.Map{
			"id":    ctx.User.ID,
			"email": ctx.User.Email,
			"role":  ctx.User.Role,
		},
	}
	if ctx.Organization != nil {
		response["organization"] = fiber.Map{
			"id":   ctx.Organization.ID,
			"uuid": ctx.Organization.UUID,
			"name": ctx.Organization.Name,
			"role": ctx.Organization.Role,
			"plan": ctx.Organization.Plan,
		}
	}
	return c.JSON(response)
}
