package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driving"
	"github.com/custodia-labs/crmlink/internal/logger"
)

// Handler serves the integration endpoints.
type Handler struct {
	auth  driving.AuthService
	items driving.ItemService

	// successRedirect is where a completed callback sends the browser.
	// Empty renders a confirmation page instead.
	successRedirect string

	log *logger.Logger
}

// NewHandler creates the handler set.
func NewHandler(
	auth driving.AuthService,
	items driving.ItemService,
	successRedirect string,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewSilent()
	}
	return &Handler{
		auth:            auth,
		items:           items,
		successRedirect: successRedirect,
		log:             log.Component("http"),
	}
}

// tenantFromQuery reads the tenant identifying fields from the query string.
func tenantFromQuery(c *gin.Context) domain.TenantID {
	return domain.TenantID{
		UserID: c.Query("user_id"),
		OrgID:  c.Query("org_id"),
		Domain: c.Query("domain"),
	}
}

// Authorize redirects to the consent screen, or returns the URL as JSON
// with ?format=json.
func (h *Handler) Authorize(c *gin.Context) {
	url, err := h.auth.AuthorizationURL(c.Request.Context(), tenantFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(nethttp.StatusOK, gin.H{"url": url})
		return
	}
	c.Redirect(nethttp.StatusFound, url)
}

// Callback completes the authorization-code flow.
func (h *Handler) Callback(c *gin.Context) {
	if code := c.Query("error"); code != "" {
		err := &domain.AuthorizationError{Code: code, Description: c.Query("error_description")}
		h.log.Warn().Str("error", code).Msg("authorization denied by issuer")
		writeError(c, err)
		return
	}

	tenant, err := h.auth.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}

	h.log.Info().Str("tenant", tenant.String()).Msg("hubspot connected")

	if h.successRedirect != "" {
		c.Redirect(nethttp.StatusFound, h.successRedirect)
		return
	}
	c.Data(nethttp.StatusOK, "text/html; charset=utf-8",
		[]byte(connectedPage("HubSpot connected", "You can close this window and return to the application.")))
}

// Items lists the tenant's normalised CRM items.
func (h *Handler) Items(c *gin.Context) {
	list, err := h.items.ListItems(c.Request.Context(), tenantFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if list.Items == nil {
		list.Items = []domain.IntegrationItem{}
	}
	c.JSON(nethttp.StatusOK, list)
}

// Status reports whether the tenant is connected.
func (h *Handler) Status(c *gin.Context) {
	status, err := h.auth.Status(c.Request.Context(), tenantFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, status)
}

// Disconnect deletes the tenant's credentials.
func (h *Handler) Disconnect(c *gin.Context) {
	if err := h.auth.Disconnect(c.Request.Context(), tenantFromQuery(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(nethttp.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
}
