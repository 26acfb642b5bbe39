package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/events"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/overlay"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

type pointerRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Close bool    `json:"close"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type descriptionRequest struct {
	Text string `json:"text"`
}

type distanceRequest struct {
	Value     float64 `json:"value"`
	Confirmed bool    `json:"confirmed"`
}

type layerRequest struct {
	Visible *bool   `json:"visible"`
	Color   *string `json:"color"`
}

type viewRequest struct {
	Zoom     *float64 `json:"zoom"`
	Step     string   `json:"step"`
	Rotation *int     `json:"rotation"`
}

func (s *Server) getSnapshot(c *gin.Context) {
	s.mu.Lock()
	snap := s.eng.Snapshot()
	s.mu.Unlock()
	c.IndentedJSON(http.StatusOK, snap)
}

func (s *Server) getSummary(c *gin.Context) {
	s.mu.Lock()
	sum := measurement.Summarize(s.eng.Layers())
	s.mu.Unlock()
	c.IndentedJSON(http.StatusOK, sum)
}

func (s *Server) getRender(c *gin.Context) {
	s.mu.Lock()
	snap := s.eng.Snapshot()
	s.mu.Unlock()

	if !snap.Loaded {
		fail(c, engine.ErrNoDocument)
		return
	}
	raster, err := s.source.RenderPage(c.Request.Context(), snap.Page, snap.View.Zoom, snap.View.Rotation)
	if err != nil {
		s.log.WithError(err).Error("render failed")
		fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, overlay.Compose(raster, snap, overlay.DefaultStyle)); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) getEvents(c *gin.Context) {
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	s.mu.Lock()
	snap := s.eng.Snapshot()
	s.mu.Unlock()
	c.SSEvent(events.Snapshot, snap)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-sub.Ready():
			for {
				ev, ok := sub.Next()
				if !ok {
					break
				}
				c.SSEvent(ev.Name, string(ev.Data))
			}
			return !sub.Closed()
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) setMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		fail(c, err)
		return
	}

	s.mu.Lock()
	err = s.eng.SelectMode(mode)
	s.mu.Unlock()
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"mode": mode})
}

func (s *Server) setDescription(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	s.mu.Lock()
	s.eng.SetDescription(req.Text)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) beginCalibration(c *gin.Context) {
	var opts calibration.Options
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		fail(c, err)
		return
	}

	s.mu.Lock()
	err := s.eng.BeginCalibration(opts)
	s.mu.Unlock()
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusAccepted, gin.H{"phase": calibration.PhaseCollecting})
}

func (s *Server) submitDistance(c *gin.Context) {
	var req distanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	s.outcome(c, func(e *engine.Engine) (engine.Outcome, error) {
		return e.SubmitDistance(req.Value, req.Confirmed)
	})
}

func (s *Server) pointerDown(c *gin.Context) {
	s.pointer(c, func(e *engine.Engine, p geometry.Point, mods engine.Modifiers) (engine.Outcome, error) {
		return e.PointerDown(p, mods)
	})
}

func (s *Server) pointerUp(c *gin.Context) {
	s.pointer(c, func(e *engine.Engine, p geometry.Point, mods engine.Modifiers) (engine.Outcome, error) {
		return e.PointerUp(p, mods)
	})
}

func (s *Server) pointerMove(c *gin.Context) {
	s.pointer(c, func(e *engine.Engine, p geometry.Point, _ engine.Modifiers) (engine.Outcome, error) {
		return engine.Outcome{}, e.PointerMove(p)
	})
}

func (s *Server) closeShape(c *gin.Context) {
	s.outcome(c, func(e *engine.Engine) (engine.Outcome, error) {
		return e.CloseShape()
	})
}

func (s *Server) cancel(c *gin.Context) {
	s.mu.Lock()
	s.eng.Cancel()
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) setLayer(c *gin.Context) {
	name := c.Param("name")
	var req layerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Color != nil {
		col, err := measurement.ParseColor(*req.Color)
		if err != nil {
			fail(c, err)
			return
		}
		if err := s.eng.SetLayerColor(name, col); err != nil {
			fail(c, err)
			return
		}
	}
	if req.Visible != nil {
		if err := s.eng.SetLayerVisible(name, *req.Visible); err != nil {
			fail(c, err)
			return
		}
	}
	for _, l := range s.eng.Layers() {
		if l.Name == name {
			c.IndentedJSON(http.StatusOK, gin.H{"name": l.Name, "visible": l.Visible, "color": measurement.FormatColor(l.Color)})
			return
		}
	}
	fail(c, fmt.Errorf("%w: %s", measurement.ErrUnknownLayer, name))
}

func (s *Server) setView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch {
	case req.Zoom != nil:
		err = s.eng.SetZoom(*req.Zoom)
	case req.Step == "in":
		err = s.eng.ZoomIn()
	case req.Step == "out":
		err = s.eng.ZoomOut()
	case req.Step != "":
		err = fmt.Errorf("unknown zoom step %q", req.Step)
	}
	if err == nil && req.Rotation != nil {
		err = s.eng.SetRotation(*req.Rotation)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, s.eng.Snapshot().View)
}

func (s *Server) pointer(c *gin.Context, f func(*engine.Engine, geometry.Point, engine.Modifiers) (engine.Outcome, error)) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	s.outcome(c, func(e *engine.Engine) (engine.Outcome, error) {
		return f(e, geometry.NewPoint(req.X, req.Y), engine.Modifiers{Close: req.Close})
	})
}

func (s *Server) outcome(c *gin.Context, f func(*engine.Engine) (engine.Outcome, error)) {
	s.mu.Lock()
	out, err := f(s.eng)
	s.mu.Unlock()
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, out)
}
