package auth

import (
	"context"
	"sync"
)

// OTPSender and OTPVerifier are the boundaries Flow talks to; OTPClient
// satisfies both.
type OTPSender interface {
	SendOTP(ctx context.Context, phoneNumber, countryCode string) (bool, error)
}

type OTPVerifier interface {
	VerifyOTP(ctx context.Context, code string) (bool, error)
}

// Flow drives the two-step phone -> OTP sequence against the store. The
// loading flag brackets every call with finally-semantics: it always ends
// up false, success or not.
type Flow struct {
	store    *Store
	sender   OTPSender
	verifier OTPVerifier

	mu          sync.Mutex
	phoneNumber string
	countryCode string
}

func NewFlow(store *Store, sender OTPSender, verifier OTPVerifier) *Flow {
	return &Flow{store: store, sender: sender, verifier: verifier}
}

// SubmitPhone dispatches a code to the number and, on success, advances to
// the OTP step. Failure leaves the flow on the phone step with no user.
func (f *Flow) SubmitPhone(ctx context.Context, phoneNumber, countryCode string) error {
	f.store.SetLoading(true)
	defer f.store.SetLoading(false)

	ok, err := f.sender.SendOTP(ctx, phoneNumber, countryCode)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	f.mu.Lock()
	f.phoneNumber = phoneNumber
	f.countryCode = countryCode
	f.mu.Unlock()
	f.store.SetOTPSent(true)
	return nil
}

// SubmitCode verifies the code. A correct code installs the authenticated
// user and ends the OTP step; a wrong one leaves the user absent and the
// otp-sent marker untouched.
func (f *Flow) SubmitCode(ctx context.Context, code string) (bool, error) {
	f.store.SetLoading(true)
	defer f.store.SetLoading(false)

	ok, err := f.verifier.VerifyOTP(ctx, code)
	if err != nil || !ok {
		return false, err
	}

	f.mu.Lock()
	phone, cc := f.phoneNumber, f.countryCode
	f.mu.Unlock()
	f.store.Login(phone, cc)
	f.store.SetOTPSent(false)
	return true, nil
}

// BackToPhone returns to the phone step without touching the user.
func (f *Flow) BackToPhone() {
	f.store.SetOTPSent(false)
}
