package auth

// Known OAuth scopes used by the follow-up service.
const (
	ScopeFollowUpsRead     = "followups:read"
	ScopeFollowUpsScan     = "followups:scan"
	ScopeNotificationsRead = "notifications:read"
)
