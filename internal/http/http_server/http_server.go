package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"debatematch/internal/http/accounthandler"
	"debatematch/internal/http/feedhandler"
	"debatematch/internal/services/headlines"
	"debatematch/internal/services/identity"
	"debatematch/internal/services/topics"
	"debatematch/internal/services/values"
	"debatematch/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

const shutdownTimeout = 10 * time.Second

// Services groups what the REST routes call into.
type Services struct {
	Identity  identity.IIdentityService
	Values    values.IValuesService
	Headlines headlines.IHeadlineService
	Topics    topics.ITopicService
}

type httpServer struct {
	listenPort uint16
	srv        *http.Server
	ln         net.Listener
	svcs       Services
	wsSrv      *ws.WsServer
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, wsSrv *ws.WsServer, svcs Services) *httpServer {
	h := &httpServer{
		listenPort: listenPort,
		wsSrv:      wsSrv,
		svcs:       svcs,
		ctx:        ctx,
	}
	h.srv = &http.Server{
		Handler:           h.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return h
}

func (h *httpServer) router() *gin.Engine {
	routerEngine := gin.New()

	routerEngine.Use(ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/healthz", "/ws"},
	}))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "stats": h.wsSrv.Stats()})
	})

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	api := routerEngine.Group("/api")
	accounthandler.New(h.svcs.Identity, h.svcs.Values).Register(api)
	feedhandler.New(h.svcs.Headlines, h.svcs.Topics).Register(api, h.svcs.Identity)

	return routerEngine
}

// Start blocks until the server is shut down.
func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	zap.L().Info("http.listening", zap.String("addr", h.ln.Addr().String()))

	if err := h.srv.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	// the root context is already cancelled at this point
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), shutdownTimeout)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}
	return nil
}
