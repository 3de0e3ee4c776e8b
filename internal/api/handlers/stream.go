package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/dhkim/tessa/internal/market"
)

const (
	minStreamInterval     = 10 * time.Second
	defaultStreamInterval = 60 * time.Second
	streamWriteTimeout    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamUpdate is the compact payload pushed on each re-evaluation.
type streamUpdate struct {
	Symbol         string    `json:"symbol"`
	Interval       string    `json:"interval"`
	GeneratedAt    time.Time `json:"generated_at"`
	Regime         string    `json:"regime"`
	Score          float64   `json:"score"`
	Recommendation string    `json:"recommendation"`
	BuyCount       int       `json:"buy_count"`
	SellCount      int       `json:"sell_count"`
	NeutralCount   int       `json:"neutral_count"`
}

// Stream upgrades to a websocket and pushes periodic re-evaluations
// GET /ws/analyze/{symbol}?interval=daily&every=60s
func (h *AnalysisHandler) Stream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	interval := market.ParseInterval(r.URL.Query().Get("interval"))

	every := defaultStreamInterval
	if v := r.URL.Query().Get("every"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'every' duration")
			return
		}
		if d < minStreamInterval {
			d = minStreamInterval
		}
		every = d
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := h.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"interval": string(interval),
	})
	log.Info("Analysis stream opened")

	// Reads are drained only to detect the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := h.pushUpdate(r, conn, symbol, interval); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("Analysis stream push failed")
			}
			return
		}

		select {
		case <-done:
			log.Info("Analysis stream closed by peer")
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *AnalysisHandler) pushUpdate(r *http.Request, conn *websocket.Conn, symbol string, interval market.Interval) error {
	result, err := h.runAnalysis(r, symbol, interval, h.cfg.Market.MaxBars)
	if err != nil {
		return err
	}

	update := streamUpdate{
		Symbol:         result.Symbol,
		Interval:       string(result.Interval),
		GeneratedAt:    result.GeneratedAt,
		Regime:         string(result.Regime),
		Score:          result.Composite.Score,
		Recommendation: string(result.Composite.Recommendation),
		BuyCount:       result.Composite.BuyCount,
		SellCount:      result.Composite.SellCount,
		NeutralCount:   result.Composite.NeutralCount,
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(update)
}
