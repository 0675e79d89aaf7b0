package handlers

import (
	"github.com/gin-gonic/gin"

	"aichat/internal/common"
	"aichat/internal/countries"
)

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// ListCountries proxies the public directory; failures come back as an
// empty list, never an error.
func (h *Handler) ListCountries(c *gin.Context) {
	list := h.Countries.Fetch(c.Request.Context())
	out := make([]gin.H, 0, len(list))
	for _, country := range list {
		out = append(out, gin.H{
			"name":      country.Name.Common,
			"cca2":      country.CCA2,
			"flag":      country.Flag,
			"dial_code": countries.DialCode(country),
		})
	}
	common.OK(c, out)
}

func (h *Handler) GetTheme(c *gin.Context) {
	common.OK(c, gin.H{"dark_mode": h.Theme.Dark()})
}

func (h *Handler) ToggleTheme(c *gin.Context) {
	common.OK(c, gin.H{"dark_mode": h.Theme.Toggle()})
}
