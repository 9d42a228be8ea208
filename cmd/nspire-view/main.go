// nspire-view serves a calculator's screen over HTTP: single captures as
// PNG, a websocket feed of periodic frames, and an optional sqlite-backed
// capture history.
package main

import (
	"flag"
	"time"

	"github.com/gin-gonic/gin"
	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("nspire-view")

func main() {
	var addr = flag.String("addr", "127.0.0.1:5050", "Calculator bridge address")
	var listen = flag.String("listen", ":8080", "HTTP listen address")
	var interval = flag.Duration("interval", time.Second, "Websocket frame period")
	var dbPath = flag.String("db", "", "Optional sqlite capture-history database")
	flag.Parse()

	srv := &server{
		bridgeAddr: *addr,
		interval:   *interval,
	}
	if *dbPath != "" {
		store, err := newHistoryStore(*dbPath)
		if err != nil {
			log.Fatalf("History store: %v", err)
		}
		defer store.Close()
		srv.history = store
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.GET("/api/status", srv.handleStatus)
	r.GET("/api/history", srv.handleHistory)
	r.GET("/screen.png", srv.handleScreenPNG)
	r.GET("/ws", srv.handleWS)

	log.Infof("Serving %s on %s (frame period %v)", *addr, *listen, *interval)
	if err := r.Run(*listen); err != nil {
		log.Fatalf("HTTP server: %v", err)
	}
}
