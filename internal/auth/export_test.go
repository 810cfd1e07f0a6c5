package auth

// SetBurn replaces the bcrypt burn used for unknown emails.
func (v *Verifier) SetBurn(f func(plain string)) {
	v.burn = f
}
