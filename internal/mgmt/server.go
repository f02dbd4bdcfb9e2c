package mgmt

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the peer
	readWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Server exposes the credential store and daemon status over a
// WebSocket management endpoint. The endpoint binds to loopback by
// default; it carries no authentication of its own.
type Server struct {
	store  *credstore.Store
	status StatusFunc

	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer creates a management server over store. status may be nil.
func NewServer(store *credstore.Store, status StatusFunc) *Server {
	return &Server{
		store:  store,
		status: status,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Management clients are local tools, not browsers.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ListenAndServe serves the management endpoint at /mgmt on addr until
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/mgmt", s.handleUpgrade)

	s.httpSrv = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: readWait,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	logging.Info("Management endpoint listening",
		zap.String("addr", ln.Addr().String()))

	err = s.httpSrv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.LogManagement(r.RemoteAddr, "upgrade", err)
		return
	}
	go s.serveConn(conn)
}

// serveConn runs the per-connection command loop.
func (s *Server) serveConn(conn *websocket.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	logging.LogManagement(remoteAddr, "connected", nil)

	defer func() {
		_ = conn.Close()
		logging.LogManagement(remoteAddr, "closed", nil)
	}()

	conn.SetReadLimit(maxMessageSize)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			return
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.LogManagement(remoteAddr, "read", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.write(conn, remoteAddr, Response{Error: "malformed command: " + err.Error()})
			continue
		}

		logging.LogManagement(remoteAddr, cmd.Op, nil)
		resp := Dispatch(s.store, s.status, cmd)
		if !s.write(conn, remoteAddr, resp) {
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, remoteAddr string, resp Response) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	if err := conn.WriteJSON(resp); err != nil {
		logging.LogManagement(remoteAddr, "write", err)
		return false
	}
	return true
}
