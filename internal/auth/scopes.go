package auth

// Scope names follow the `<resource>.<operation>` convention. A session
// token created at login is granted the full catalog; client tokens carry
// whatever subset was configured when they were issued.
const (
	ScopeUsersCreate   = "users.create"
	ScopeUsersRetrieve = "users.retrieve"
	ScopeUsersUpdate   = "users.update"
	ScopeUsersDelete   = "users.delete"

	ScopeTagsCreate   = "tags.create"
	ScopeTagsRetrieve = "tags.retrieve"
	ScopeTagsUpdate   = "tags.update"
	ScopeTagsDelete   = "tags.delete"

	ScopeUserSettingsCreate   = "user_settings.create"
	ScopeUserSettingsRetrieve = "user_settings.retrieve"
	ScopeUserSettingsUpdate   = "user_settings.update"
	ScopeUserSettingsDelete   = "user_settings.delete"

	ScopeAPITokensRetrieve = "api_tokens.retrieve"
	ScopeAPITokensDelete   = "api_tokens.delete"
)

// The api_clients resource has no scopes: it is a self-service surface
// restricted to session tokens by token class alone.

// ScopeCatalog lists every scope known to the service.
func ScopeCatalog() []string {
	return []string{
		ScopeUsersCreate, ScopeUsersRetrieve, ScopeUsersUpdate, ScopeUsersDelete,
		ScopeTagsCreate, ScopeTagsRetrieve, ScopeTagsUpdate, ScopeTagsDelete,
		ScopeUserSettingsCreate, ScopeUserSettingsRetrieve, ScopeUserSettingsUpdate, ScopeUserSettingsDelete,
		ScopeAPITokensRetrieve, ScopeAPITokensDelete,
	}
}
