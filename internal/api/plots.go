package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/stageplot/stageplot-go/internal/services/plots"
	"github.com/stageplot/stageplot-go/internal/services/pubsub"
)

// PlotHandler serves the plot store endpoints. Every operation is scoped to
// the authenticated user.
type PlotHandler struct {
	plots    *plots.Service
	events   *pubsub.PubSub
	upgrader websocket.Upgrader
}

func NewPlotHandler(service *plots.Service, events *pubsub.PubSub) *PlotHandler {
	return &PlotHandler{
		plots:  service,
		events: events,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *PlotHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	list, err := h.plots.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PlotHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var input plots.SaveInput
	if !decodeBody(w, r, &input) {
		return
	}

	plot, created, err := h.plots.Save(r.Context(), input, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, plot)
}

func (h *PlotHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	details, err := h.plots.GetWithFixtures(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *PlotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	deleted, err := h.plots.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Plot not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stream upgrades the connection and pushes plot change events for the
// authenticated user until the client disconnects.
func (h *PlotHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	updated := h.events.Subscribe(pubsub.TopicPlotUpdated, userID, 16)
	deleted := h.events.Subscribe(pubsub.TopicPlotDeleted, userID, 16)
	defer h.events.Unsubscribe(updated)
	defer h.events.Unsubscribe(deleted)

	// Read pump: discard inbound frames, detect disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg := <-updated.Channel:
			if h.writeEvent(conn, msg) != nil {
				return
			}
		case msg := <-deleted.Channel:
			if h.writeEvent(conn, msg) != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *PlotHandler) writeEvent(conn *websocket.Conn, msg interface{}) error {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Warning: websocket write failed: %v", err)
		return err
	}
	return nil
}
