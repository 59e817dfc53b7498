// Error page embed handler.
//
// One URL serves the whole widget life cycle:
//   - OPTIONS  preflight acknowledgement
//   - GET      loader script with the rendered feedback form
//   - POST     form submission, stored as a user report
//
// Preconditions are checked in order: eventId, dsn, origin presence, origin
// policy. Every response carries the CORS headers except the two origin
// failures.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/http/middleware"
	"github.com/tbourn/go-errpage-embed/internal/observability"
	"github.com/tbourn/go-errpage-embed/internal/services"
	"github.com/tbourn/go-errpage-embed/internal/sysutil"
	"github.com/tbourn/go-errpage-embed/internal/widget"
)

// CORS header values sent by the embed endpoint.
const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsMaxAge       = "1000"
	corsAllowHeaders = "Content-Type, Authorization, X-Requested-With"

	contentTypeJS = "application/javascript"

	// ctxProjectKey holds the key resolved by EmbedGuard.
	ctxProjectKey = "embed.projectKey"
)

// Embed godoc
// @ID          errorPageEmbed
// @Summary     Error page feedback widget
// @Description OPTIONS acknowledges a preflight. GET returns a script that
// @Description injects the feedback form into the calling page. POST stores
// @Description the submitted report and links it to the event's group when
// @Description the event has been ingested already.
// @Tags        Embed
// @Accept      x-www-form-urlencoded
// @Produce     application/javascript
// @Produce     json
//
// @Param       eventId   query     string true  "Event identifier"                 example(a1b2c3d4e5f6)
// @Param       dsn       query     string true  "Project DSN"                      example(https://public@errors.example.com/1)
// @Param       name      query     string false "Prefilled reporter name (GET)"
// @Param       email     query     string false "Prefilled reporter email (GET)"
// @Param       Origin    header    string false "Calling origin; Referer is used when absent"
// @Param       name      formData  string false "Reporter name (POST)"
// @Param       email     formData  string false "Reporter email (POST)"
// @Param       comments  formData  string false "What happened (POST)"
// @Param       notifyme  formData  bool   false "Notify me when resolved (POST)"
//
// @Success     200  {string} string "Script (GET) or empty body"
// @Failure     400  {object} handlers.ValidationErrorResponse "Missing eventId (empty body) or invalid form"
// @Failure     403  {string} string "Missing or disallowed origin"
// @Failure     404  {string} string "Unknown DSN"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /api/embed/error-page/ [get]
// @Router      /api/embed/error-page/ [post]
// @Router      /api/embed/error-page/ [options]
func (h *Handlers) Embed(c *gin.Context) {
	key, admitted := admittedKey(c)
	if !admitted {
		if key, admitted = h.admit(c); !admitted {
			return
		}
	}
	eventID := c.Query("eventId")

	switch c.Request.Method {
	case http.MethodOptions:
		emptyJSON(c, http.StatusOK)

	case http.MethodGet:
		state := widget.Initial(c.Query("name"), c.Query("email"))
		script, err := widget.Render(c.Request.URL.RequestURI(), state)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeRenderFailed, "could not render widget")
			return
		}
		c.Data(http.StatusOK, contentTypeJS, []byte(script))

	case http.MethodPost:
		form := services.ReportForm{
			Name:     c.PostForm("name"),
			Email:    c.PostForm("email"),
			Comments: c.PostForm("comments"),
			NotifyMe: sysutil.IsTruthy(c.PostForm("notifyme")),
		}
		_, err := h.reports.Submit(c.Request.Context(), key, eventID, form)
		var verr *services.ValidationError
		switch {
		case err == nil:
			c.Status(http.StatusOK)
		case errors.As(err, &verr):
			ok(c, http.StatusBadRequest, ValidationErrorResponse{Errors: verr.Fields})
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, "could not store report")
		}

	default:
		fail(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

// EmbedGuard runs the embed preconditions ahead of Embed, so middleware
// placed between the two (compression) only sees admitted requests. Failures
// abort the chain with an empty body.
func (h *Handlers) EmbedGuard(c *gin.Context) {
	if key, ok := h.admit(c); ok {
		c.Set(ctxProjectKey, key)
	}
}

// admit checks eventId, dsn, origin presence and origin policy, in that
// order. On success the CORS headers are set and the key is returned.
func (h *Handlers) admit(c *gin.Context) (*domain.ProjectKey, bool) {
	if c.Query("eventId") == "" {
		reject(c, observability.ReasonMissingEvent)
		withCORS(c)
		emptyJSON(c, http.StatusBadRequest)
		return nil, false
	}

	key, err := h.keys.Resolve(c.Request.Context(), c.Query("dsn"))
	if err != nil {
		if !errors.Is(err, services.ErrKeyNotFound) {
			withCORS(c)
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "key lookup failed")
			return nil, false
		}
		reject(c, observability.ReasonUnknownKey)
		withCORS(c)
		emptyJSON(c, http.StatusNotFound)
		return nil, false
	}

	origin := sysutil.FirstNonEmpty(c.GetHeader("Origin"), c.GetHeader("Referer"))
	if origin == "" {
		reject(c, observability.ReasonMissingOrigin)
		empty(c, http.StatusForbidden)
		return nil, false
	}
	if !h.origins.Allowed(origin, &key.Project) {
		reject(c, observability.ReasonOriginDisallow)
		empty(c, http.StatusForbidden)
		return nil, false
	}

	withCORS(c)
	return key, true
}

func admittedKey(c *gin.Context) (*domain.ProjectKey, bool) {
	v, ok := c.Get(ctxProjectKey)
	if !ok {
		return nil, false
	}
	key, ok := v.(*domain.ProjectKey)
	return key, ok && key != nil
}

// withCORS attaches the embed CORS headers, echoing the request's Origin
// header verbatim (empty when the origin came from Referer).
func withCORS(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", c.GetHeader("Origin"))
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Max-Age", corsMaxAge)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
}

// emptyJSON aborts with status, a JSON content type and no body.
func emptyJSON(c *gin.Context, status int) {
	c.Header("Content-Type", "application/json")
	empty(c, status)
}

func reject(c *gin.Context, reason string) {
	observability.EmbedRejections.WithLabelValues(reason).Inc()
	middleware.LoggerFrom(c).Debug().Str("reason", reason).Msg("embed request rejected")
}
