package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/audit"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/session"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type addMemberRequest struct {
	Email string         `json:"email"`
	Role  models.OrgRole `json:"role"`
}

type updateMemberRequest struct {
	Role models.OrgRole `json:"role"`
}

// HandleCreateOrganization creates a new organization with the caller as
// its owner
func HandleCreateOrganization(c *fiber.Ctx) error {
	var req createOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	org := &models.Organization{
		Name: req.Name,
		Slug: strings.ToLower(strings.TrimSpace(req.Slug)),
		Plan: models.PLAN_FREE,
	}
	if err := org.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Organization.Create(org); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return jsonError(c, fiber.StatusBadRequest, "duplicate_key", "An organization with this slug already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create organization")
	}

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         authctx.UserID(c),
		Role:           models.OrgRoleOwner,
	}
	if err := repos.Organization.AddMember(member); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record ownership")
	}

	// New organization becomes the session default
	_ = session.SetSessionValue(c, authctx.SessionKeyActiveOrgID, strconv.FormatUint(uint64(org.ID), 10))

	audit.NewRecorder(repos.Audit).Record("organization.create", org.Slug, authctx.UserID(c), org.ID, nil)

	return c.Status(fiber.StatusCreated).JSON(org)
}

// HandleActivateOrganization persists a new default organization on the
// session. Unlike the X-Organization-Id header, which scopes a single
// request, activation survives across requests.
func HandleActivateOrganization(c *fiber.Ctx) error {
	orgID := parseUintParam(c, "id")
	if orgID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid organization id")
	}

	repos := repository.GetGlobalRepositories()
	member, err := repos.Organization.GetMembership(orgID, authctx.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusForbidden, "insufficient_permissions", "You are not a member of this organization")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to verify membership")
	}

	if err := session.SetSessionValue(c, authctx.SessionKeyActiveOrgID, strconv.FormatUint(uint64(orgID), 10)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update session")
	}

	return c.JSON(fiber.Map{
		"organization_id": orgID,
		"role":            member.Role,
	})
}

// HandleListMyOrganizations returns every organization the caller belongs to
func HandleListMyOrganizations(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	memberships, err := repos.Organization.ListMembershipsByUser(authctx.UserID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load organizations")
	}

	result := make([]fiber.Map, 0, len(memberships))
	for _, m := range memberships {
		result = append(result, fiber.Map{
			"id":   m.OrganizationID,
			"uuid": m.Organization.UUID,
			"name": m.Organization.Name,
			"slug": m.Organization.Slug,
			"plan": m.Organization.Plan,
			"role": m.Role,
		})
	}
	return c.JSON(result)
}

// HandleAddMember records a membership for an existing user. Restricted to
// organization owners and admins.
func HandleAddMember(c *fiber.Ctx) error {
	orgID, err := requireOrgAdmin(c)
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	if !models.ValidOrgRole(req.Role) {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Unknown organization role")
	}

	repos := repository.GetGlobalRepositories()
	user, lookupErr := repos.User.GetByEmail(req.Email)
	if lookupErr != nil {
		if errors.Is(lookupErr, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "No account with this email")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to look up user")
	}

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           req.Role,
	}
	if err := repos.Organization.AddMember(member); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return jsonError(c, fiber.StatusBadRequest, "duplicate_key", "User is already a member")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to add member")
	}

	audit.NewRecorder(repos.Audit).Record("organization.member_add", req.Email, authctx.UserID(c), orgID, map[string]interface{}{
		"role": string(req.Role),
	})

	return c.Status(fiber.StatusCreated).JSON(member)
}

// HandleUpdateMemberRole changes an existing member's organization role
func HandleUpdateMemberRole(c *fiber.Ctx) error {
	orgID, err := requireOrgAdmin(c)
	if err != nil {
		return err
	}

	userID := parseUintParam(c, "userId")
	if userID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid user id")
	}

	var req updateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	if !models.ValidOrgRole(req.Role) {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Unknown organization role")
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Organization.UpdateMemberRole(orgID, userID, req.Role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Membership not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update member role")
	}

	audit.NewRecorder(repos.Audit).Record("organization.member_role", strconv.FormatUint(uint64(userID), 10), authctx.UserID(c), orgID, map[string]interface{}{
		"role": string(req.Role),
	})

	return c.JSON(fiber.Map{"organization_id": orgID, "user_id": userID, "role": req.Role})
}

// HandleDeleteOrganization removes an organization and its dependent rows.
// Restricted to owners; refused while an active subscription exists.
func HandleDeleteOrganization(c *fiber.Ctx) error {
	orgID := parseUintParam(c, "id")
	if orgID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid organization id")
	}

	repos := repository.GetGlobalRepositories()
	member, err := repos.Organization.GetMembership(orgID, authctx.UserID(c))
	if err != nil || member.Role != models.OrgRoleOwner {
		return jsonError(c, fiber.StatusForbidden, "insufficient_permissions", "Organization owner role required")
	}

	if err := repos.Organization.Delete(orgID); err != nil {
		if errors.Is(err, repository.ErrOrganizationHasSubscription) {
			return jsonError(c, fiber.StatusBadRequest, "validation_error", "Cancel the active subscription before deleting the organization")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Organization not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete organization")
	}

	audit.NewRecorder(repos.Audit).Record("organization.delete", strconv.FormatUint(uint64(orgID), 10), authctx.UserID(c), orgID, nil)

	return c.JSON(fiber.Map{"message": "organization deleted"})
}
