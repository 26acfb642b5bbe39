// Package server exposes an engine over HTTP with server-sent change events.
// Requests are serialized so the engine sees one event at a time.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/events"
	"github.com/sirupsen/logrus"
)

// Server owns an engine and the page source it measures on.
type Server struct {
	mu     sync.Mutex
	eng    *engine.Engine
	source document.Rasterizer
	hub    *events.Hub
	log    *logrus.Entry
}

// New wraps eng. The engine's notifier is replaced so every change is
// published on hub.
func New(eng *engine.Engine, source document.Rasterizer, hub *events.Hub, log *logrus.Entry) *Server {
	if hub == nil {
		hub = events.NewHub()
	}
	if log == nil {
		log = logrus.WithField("component", "server")
	}
	s := &Server{eng: eng, source: source, hub: hub, log: log}
	eng.SetNotifier(s.publish)
	// the HTTP surface always resolves calibration distances asynchronously
	eng.SetPrompter(nil)
	return s
}

// Hub returns the event hub changes are published on
func (s *Server) Hub() *events.Hub {
	return s.hub
}

// Do runs f with exclusive access to the engine
func (s *Server) Do(f func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.eng)
}

// publish runs inside an engine call, so the lock is already held
func (s *Server) publish(c engine.Change) {
	s.hub.PublishChange(events.EngineChangeEvent{
		Kind:         string(c.Kind),
		Mode:         string(s.eng.Mode()),
		Phase:        string(s.eng.Phase()),
		Ratio:        s.eng.Ratio(),
		Measurements: countMeasurements(s.eng),
		Ts:           time.Now().Unix(),
	})
}

func countMeasurements(e *engine.Engine) int {
	n := 0
	for _, l := range e.Layers() {
		n += len(l.Measurements)
	}
	return n
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(s.log))

	router.GET("/snapshot", s.getSnapshot)
	router.GET("/summary", s.getSummary)
	router.GET("/render.png", s.getRender)
	router.GET("/events", s.getEvents)
	router.PUT("/mode", s.setMode)
	router.PUT("/description", s.setDescription)
	router.POST("/calibration", s.beginCalibration)
	router.POST("/calibration/distance", s.submitDistance)
	router.POST("/pointer/down", s.pointerDown)
	router.POST("/pointer/move", s.pointerMove)
	router.POST("/pointer/up", s.pointerUp)
	router.POST("/close", s.closeShape)
	router.POST("/cancel", s.cancel)
	router.PUT("/layers/:name", s.setLayer)
	router.PUT("/view", s.setView)

	return router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	gin.SetMode(gin.ReleaseMode)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Router()}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}
