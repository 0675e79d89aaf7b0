package auth

import (
	"context"
	"log/slog"
	"time"

	"aichat/internal/clock"
)

// DefaultOTPCode is the only code the mocked verifier accepts.
const DefaultOTPCode = "123456"

const (
	sendOTPDelay   = 2 * time.Second
	verifyOTPDelay = 1500 * time.Millisecond
)

// OTPClient is the mocked network boundary for OTP dispatch and
// verification. Sends always succeed; verification accepts exactly the
// configured demo code.
type OTPClient struct {
	Code  string
	clock clock.Clock
	log   *slog.Logger
}

func NewOTPClient(clk clock.Clock, log *slog.Logger, code string) *OTPClient {
	if code == "" {
		code = DefaultOTPCode
	}
	return &OTPClient{Code: code, clock: clk, log: log}
}

// SendOTP simulates dispatching a code to the given number.
func (c *OTPClient) SendOTP(ctx context.Context, phoneNumber, countryCode string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.clock.After(sendOTPDelay):
	}
	c.log.Info("otp sent", "phone", countryCode+phoneNumber)
	return true, nil
}

// VerifyOTP simulates checking the submitted code.
func (c *OTPClient) VerifyOTP(ctx context.Context, code string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.clock.After(verifyOTPDelay):
	}
	return code == c.Code, nil
}
