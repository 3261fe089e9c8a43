package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reqscope/reqscope/internal/adapters/http/dto"
	"github.com/reqscope/reqscope/internal/app"
	"github.com/reqscope/reqscope/internal/app/globals"
	"github.com/reqscope/reqscope/internal/platform/logging"
)

// GlobalsHandler exposes endpoints that demonstrate the request-scoped
// globals lifecycle. The endpoints own no business logic; they only populate
// and introspect the scope of the request serving them.
type GlobalsHandler struct{}

// NewGlobalsHandler creates a new globals demo handler.
func NewGlobalsHandler() *GlobalsHandler {
	return &GlobalsHandler{}
}

// globalsSnapshotResponse reports the scope contents at response time.
type globalsSnapshotResponse struct {
	GlobalKeys   []string       `json:"global_keys"`
	GlobalValues []any          `json:"global_values"`
	GlobalDict   map[string]any `json:"global_dict"`
}

// snapshotResponse materializes the current scope into the response shape.
func snapshotResponse(ctx context.Context) globalsSnapshotResponse {
	resp := globalsSnapshotResponse{
		GlobalKeys:   []string{},
		GlobalValues: []any{},
		GlobalDict:   globals.G.ToMap(ctx),
	}

	for name, value := range globals.G.Items(ctx) {
		resp.GlobalKeys = append(resp.GlobalKeys, name)
		resp.GlobalValues = append(resp.GlobalValues, value)
	}

	return resp
}

// Populate is route-level middleware that seeds the scope before the handler
// runs, standing in for any upstream stage (auth, tenant resolution, ...)
// that stashes values for later use.
func (h *GlobalsHandler) Populate(c *gin.Context) {
	ctx := c.Request.Context()

	for name, value := range map[string]any{
		"username":   "JohnDoe",
		"request_id": "123456",
		"is_admin":   true,
		"to_pop":     "dispensable",
	} {
		if err := globals.G.Set(ctx, name, value); err != nil {
			logging.FromContext(ctx).Error("populating globals scope",
				slog.String("name", name),
				slog.Any("error", err),
			)
			c.AbortWithStatus(http.StatusInternalServerError)

			return
		}
	}

	c.Next()
}

// Inspect handles GET /api/v1/globals/populated and /api/v1/globals/empty.
// It discards the dispensable attribute, logs what the scope holds, and
// returns the remaining contents.
func (h *GlobalsHandler) Inspect(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	if popped := globals.G.Pop(ctx, "to_pop"); popped != nil {
		logger.Debug("discarded dispensable attribute", slog.Any("value", popped))
	}

	for name, value := range globals.G.Items(ctx) {
		logger.Info("global variable",
			slog.String("name", name),
			slog.Any("value", value),
		)
	}

	c.JSON(http.StatusOK, snapshotResponse(ctx))
}

// Fanout handles GET /api/v1/globals/fanout. It computes two attributes in
// concurrent child tasks that share the request's context, showing that the
// scope follows the request into spawned goroutines.
func (h *GlobalsHandler) Fanout(c *gin.Context) {
	ctx := c.Request.Context()

	username, requestID, err := app.Parallel2(ctx,
		func(ctx context.Context) (string, error) {
			return "JohnDoe", globals.G.Set(ctx, "greeting", "hello")
		},
		func(ctx context.Context) (string, error) {
			return "123456", globals.G.Set(ctx, "locale", "en")
		},
	)
	if err != nil {
		logging.FromContext(ctx).Error("fanout failed", slog.Any("error", err))
		c.AbortWithStatus(http.StatusInternalServerError)

		return
	}

	if err := globals.G.Set(ctx, "username", username); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)

		return
	}

	if err := globals.G.Set(ctx, "request_id", requestID); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)

		return
	}

	c.JSON(http.StatusOK, snapshotResponse(ctx))
}

// Lookup handles GET /api/v1/globals/attr/:name, the attribute-style strict
// read: absent names answer 404 with the offending name.
func (h *GlobalsHandler) Lookup(c *gin.Context) {
	ctx := c.Request.Context()
	name := strings.TrimSpace(c.Param("name"))

	value, err := globals.G.Value(ctx, name)
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "value": value})
}
