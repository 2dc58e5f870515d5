package domain

import "github.com/go-playground/validator/v10"

// WalletRule is the validator rule for external account ids: a leading G
// followed by upper-case alphanumerics, 56 characters in total.
const WalletRule = "len=56,startswith=G,alphanum,uppercase"

var walletValidator = validator.New()

// ValidWalletAddress reports whether addr has the external account id shape.
func ValidWalletAddress(addr string) bool {
	return walletValidator.Var(addr, WalletRule) == nil
}

// RegisterWalletRule installs the "wallet" tag on v so structs can declare
// `validate:"wallet"`.
func RegisterWalletRule(v *validator.Validate) {
	_ = v.RegisterValidation("wallet", func(fl validator.FieldLevel) bool {
		return ValidWalletAddress(fl.Field().String())
	})
}
