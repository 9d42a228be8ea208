package main

import (
	"bytes"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jdeng/gonspire/pkg/nspire"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type server struct {
	bridgeAddr string
	interval   time.Duration
	history    *historyStore

	mu   sync.RWMutex
	last *captureInfo
}

type captureInfo struct {
	At       time.Time `json:"at"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	BPP      int       `json:"bpp"`
	Complete bool      `json:"complete"`
	Bytes    int       `json:"bytes"`
}

// capturePNG runs one acquisition against the bridge and returns the frame
// as PNG bytes. Every capture dials a fresh session; the bridge protocol is
// one exchange per connection.
func (s *server) capturePNG() ([]byte, *captureInfo, error) {
	t, err := nspire.DialTCP(s.bridgeAddr)
	if err != nil {
		return nil, nil, err
	}
	img, err := nspire.Screenshot(t)
	if err != nil {
		return nil, nil, err
	}

	stdImg, err := img.StdImage()
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, stdImg); err != nil {
		return nil, nil, err
	}

	info := &captureInfo{
		At:       time.Now(),
		Width:    img.Width(),
		Height:   img.Height(),
		BPP:      img.BPP(),
		Complete: img.Complete(),
		Bytes:    buf.Len(),
	}
	s.mu.Lock()
	s.last = info
	s.mu.Unlock()

	if s.history != nil {
		if err := s.history.Insert(info); err != nil {
			log.Warningf("Record capture: %v", err)
		}
	}
	return buf.Bytes(), info, nil
}

func (s *server) handleStatus(c *gin.Context) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"bridge": s.bridgeAddr,
		"last":   last,
	})
}

func (s *server) handleScreenPNG(c *gin.Context) {
	frame, _, err := s.capturePNG()
	if err != nil {
		log.Errorf("Capture failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", frame)
}

func (s *server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history store not configured"})
		return
	}
	records, err := s.history.Recent(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"captures": records, "count": len(records)})
}

// handleWS pushes PNG frames as binary websocket messages at the configured
// period until the peer goes away.
func (s *server) handleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Websocket upgrade: %v", err)
		return
	}
	defer ws.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		frame, info, err := s.capturePNG()
		if err != nil {
			log.Errorf("Capture failed: %v", err)
			if werr := ws.WriteJSON(gin.H{"error": err.Error()}); werr != nil {
				return
			}
		} else {
			log.Debugf("Pushing %dx%d frame, %d bytes", info.Width, info.Height, len(frame))
			if err := ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}
		<-ticker.C
	}
}
