package authctx

// Shared Locals/session keys used across controllers and middlewares
const (
	LocalsKey = "AUTH_CONTEXT"

	SessionKeyUserID      = "user_id"
	SessionKeyActiveOrgID = "active_org_id"

	// HeaderOrganizationID carries a request-scoped organization switch. It
	// is honored only when the caller holds a membership in that organization.
	HeaderOrganizationID = "X-Organization-Id"
)
