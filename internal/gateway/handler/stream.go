package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ideaforge/internal/gateway/service/generation"
	"ideaforge/internal/pipeline"
)

const (
	streamWriteWait = 10 * time.Second
	streamPongWait  = 60 * time.Second
	streamPingEvery = (streamPongWait * 9) / 10
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type streamOutbound struct {
	Type      string               `json:"type"`
	Method    pipeline.MethodID    `json:"method,omitempty"`
	Step      pipeline.StepID      `json:"step,omitempty"`
	Status    string               `json:"status,omitempty"`
	Items     int                  `json:"items,omitempty"`
	ElapsedMS int64                `json:"elapsed_ms,omitempty"`
	Result    *generation.Response `json:"result,omitempty"`
	Code      string               `json:"code,omitempty"`
	Message   string               `json:"message,omitempty"`
}

// streamObserver forwards step events to the socket writer. Calls arrive
// concurrently from parallel steps; the channel serializes them.
type streamObserver struct {
	writeCh chan streamOutbound
}

func (o *streamObserver) StepStarted(method pipeline.MethodID, step pipeline.StepID) {
	pushStream(o.writeCh, streamOutbound{Type: "step", Method: method, Step: step, Status: "started"})
}

func (o *streamObserver) StepFinished(method pipeline.MethodID, step pipeline.StepID, items int, elapsed time.Duration, err error) {
	out := streamOutbound{
		Type:      "step",
		Method:    method,
		Step:      step,
		Status:    "finished",
		Items:     items,
		ElapsedMS: elapsed.Milliseconds(),
	}
	if err != nil {
		out.Status = "failed"
	}
	pushStream(o.writeCh, out)
}

// HandleGenerateStream serves GET /api/generate/stream. The client sends one
// generate request; the server answers with step events followed by a single
// result or error event and closes the socket. Closing the socket early
// cancels the run.
func (h *GenerateHandler) HandleGenerateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(streamPongWait)); err != nil {
		log.Printf("generate stream: set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	var in generateRequest
	if err := conn.ReadJSON(&in); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "expected a generate request"),
			time.Now().Add(streamWriteWait))
		return
	}

	writeCh := make(chan streamOutbound, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(streamPingEvery)
		defer ticker.Stop()

		for {
			select {
			case out, ok := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
					return
				}
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					cancel()
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// The reader only watches for the client going away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	resp, err := h.svc.Generate(ctx, in.toRequest(r), &streamObserver{writeCh: writeCh})
	if err != nil {
		_, code, msg := Classify(err)
		pushStream(writeCh, streamOutbound{Type: "error", Code: code, Message: msg})
	} else {
		pushStream(writeCh, streamOutbound{Type: "result", Method: resp.Method, Result: &resp})
	}
	close(writeCh)
	<-writerDone
}

// pushStream never blocks a pipeline step. When the buffer is full the oldest
// event is dropped.
func pushStream(writeCh chan streamOutbound, out streamOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
