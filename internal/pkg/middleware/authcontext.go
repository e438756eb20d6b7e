package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/authctx"
	"github.com/motorlot/MotorLot/internal/pkg/session"
)

// AuthContextMiddleware resolves the caller's identity and active
// organization for every request. The context is rebuilt per request from
// the session plus an optional X-Organization-Id header and never outlives
// the request.
func AuthContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(authctx.LocalsKey, authctx.AuthContext{IsLoggedIn: false})
		return c.Next()
	}

	userID := sess.Get(authctx.SessionKeyUserID)
	if userID == nil {
		// Anonymous request - no session identity
		c.Locals(authctx.LocalsKey, authctx.AuthContext{IsLoggedIn: false})
		return c.Next()
	}

	uid, ok := userID.(uint)
	if !ok {
		c.Locals(authctx.LocalsKey, authctx.AuthContext{IsLoggedIn: false})
		return c.Next()
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(uid)
	if err != nil || !user.IsActive() {
		// Stale session pointing at a deleted or disabled account
		c.Locals(authctx.LocalsKey, authctx.AuthContext{IsLoggedIn: false})
		return c.Next()
	}

	memberships, err := repos.Organization.ListMembershipsByUser(user.ID)
	if err != nil {
		memberships = nil
	}

	ctx := authctx.AuthContext{
		User: authctx.AuthUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
		Organization: resolveActiveOrganization(c, memberships),
		IsLoggedIn:   true,
	}
	c.Locals(authctx.LocalsKey, ctx)

	return c.Next()
}

// resolveActiveOrganization picks the organization scope for this request.
// The session's recorded organization is the default; a valid
// X-Organization-Id header pointing at one of the caller's memberships
// replaces it for this request only. Headers naming organizations the caller
// does not belong to are silently ignored. The persisted session is never
// mutated here.
func resolveActiveOrganization(c *fiber.Ctx, memberships []models.OrganizationMember) *authctx.AuthOrganization {
	if len(memberships) == 0 {
		return nil
	}

	active := &memberships[0]
	if recorded := session.GetSessionValue(c, authctx.SessionKeyActiveOrgID); recorded != "" {
		if id, err := strconv.ParseUint(recorded, 10, 64); err == nil {
			if m := findMembership(memberships, uint(id)); m != nil {
				active = m
			}
		}
	}

	if header := c.Get(authctx.HeaderOrganizationID); header != "" {
		if id, err := strconv.ParseUint(header, 10, 64); err == nil {
			if m := findMembership(memberships, uint(id)); m != nil {
				active = m
			}
		}
	}

	return &authctx.AuthOrganization{
		ID:   active.OrganizationID,
		UUID: active.Organization.UUID,
		Name: active.Organization.Name,
		Role: active.Role,
		Plan: active.Organization.Plan,
	}
}

func findMembership(memberships []models.OrganizationMember, orgID uint) *models.OrganizationMember {
	for i := range memberships {
		if memberships[i].OrganizationID == orgID {
			return &memberships[i]
		}
	}
	return nil
}
