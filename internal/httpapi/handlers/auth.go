package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat/internal/common"
)

type sendOTPReq struct {
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=15"`
	CountryCode string `json:"country_code" binding:"required"`
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req sendOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "phone number must be 10-15 digits")
		return
	}

	if err := h.Flow.SubmitPhone(c.Request.Context(), req.PhoneNumber, req.CountryCode); err != nil {
		common.Fail(c, http.StatusBadGateway, 50201, "failed to send verification code")
		return
	}

	common.OK(c, gin.H{"otp_sent": h.Auth.OTPSent()})
}

type verifyOTPReq struct {
	Code string `json:"code" binding:"required,len=6"`
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10002, "code must be 6 digits")
		return
	}

	ok, err := h.Flow.SubmitCode(c.Request.Context(), req.Code)
	if err != nil {
		common.Fail(c, http.StatusBadGateway, 50202, "failed to verify code")
		return
	}
	if !ok {
		common.Fail(c, http.StatusBadRequest, 10003, "invalid verification code")
		return
	}

	common.OK(c, h.Auth.User())
}

func (h *Handler) BackToPhone(c *gin.Context) {
	h.Flow.BackToPhone()
	common.OK(c, gin.H{"otp_sent": false})
}

func (h *Handler) Logout(c *gin.Context) {
	h.Auth.Logout()
	common.OK(c, nil)
}

func (h *Handler) Me(c *gin.Context) {
	u := h.Auth.User()
	if u == nil {
		common.Fail(c, http.StatusUnauthorized, 40101, "not authenticated")
		return
	}
	common.OK(c, u)
}
