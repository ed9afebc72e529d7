package auth

import "strings"

// Scope is a capability string carried in a bearer token. Tokens hold a
// space-joined list of scopes in their `scopes` claim.
type Scope string

const (
	// ScopeAPI allows calling the regular API endpoints.
	ScopeAPI Scope = "API"
	// ScopeAuth is granted during OpenID-style authorization flows.
	ScopeAuth Scope = "auth"
)

// ScopesSatisfied evaluates a required-scope policy against the space-joined
// scopes of a token. The policy is an OR of ANDs: access is granted when at
// least one inner set is fully present. An empty policy always grants.
func ScopesSatisfied(policy [][]Scope, tokenScopes string) bool {
	if len(policy) == 0 {
		return true
	}

	held := map[Scope]bool{}
	for _, s := range strings.Split(tokenScopes, " ") {
		if s != "" {
			held[Scope(s)] = true
		}
	}

	for _, set := range policy {
		satisfied := true
		for _, s := range set {
			if !held[s] {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true
		}
	}
	return false
}

// JoinScopes builds the token claim representation of a scope list.
func JoinScopes(scopes ...Scope) string {
	parts := make([]string, 0, len(scopes))
	for _, s := range scopes {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, " ")
}
