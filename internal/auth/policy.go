package auth

type policyKind int

const (
	policyNoToken policyKind = iota
	policyAnyValid
	policyShortLivedOnly
	policyScoped
)

// Policy is a closed set of access rules evaluated against a resolved
// request. Policies are plain values; construct them with NoToken,
// AnyValid, ShortLivedOnly, or Scoped.
type Policy struct {
	kind            policyKind
	scopes          []string
	allowShortLived bool
}

// NoToken requires that the request carries no valid token. It guards
// endpoints such as login that make no sense inside a session.
func NoToken() Policy {
	return Policy{kind: policyNoToken}
}

// AnyValid requires a valid token of either class.
func AnyValid() Policy {
	return Policy{kind: policyAnyValid}
}

// ShortLivedOnly requires a valid session token.
func ShortLivedOnly() Policy {
	return Policy{kind: policyShortLivedOnly}
}

// Scoped requires a valid token carrying every listed scope. Session
// tokens are only acceptable when allowShortLived is set, but they still
// have to carry the scopes. An empty scope list means the operation is
// disabled: no token can ever satisfy it.
func Scoped(scopes []string, allowShortLived bool) Policy {
	return Policy{kind: policyScoped, scopes: scopes, allowShortLived: allowShortLived}
}

// Authorize evaluates the policy against a resolved request.
func (p Policy) Authorize(r ResolvedAuth) error {
	switch p.kind {
	case policyNoToken:
		if r.Present() {
			return ErrAuthorizationFailed
		}
		return nil
	case policyAnyValid:
		if !r.Present() {
			return ErrAuthorizationFailed
		}
		return nil
	case policyShortLivedOnly:
		if !r.Present() || !r.Token.IsShortLived() {
			return ErrAuthorizationFailed
		}
		return nil
	case policyScoped:
		if !r.Present() {
			return ErrAuthorizationFailed
		}
		if len(p.scopes) == 0 {
			return ErrAuthorizationFailed
		}
		if r.Token.IsShortLived() && !p.allowShortLived {
			return ErrAuthorizationFailed
		}
		for _, scope := range p.scopes {
			if !r.Token.HasScope(scope) {
				return ErrAuthorizationFailed
			}
		}
		return nil
	}
	return ErrAuthorizationFailed
}
