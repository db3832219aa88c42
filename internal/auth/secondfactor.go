package auth

import "github.com/pquerna/otp/totp"

// verifySecondFactor checks a TOTP code against the account's configured
// secret. Accounts without a second factor must not present one; accounts
// with one must present a code valid for the current time step.
func verifySecondFactor(secret, code *string) bool {
	if secret == nil {
		return code == nil
	}
	if code == nil {
		return false
	}
	return totp.Validate(*code, *secret)
}
