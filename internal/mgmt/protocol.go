package mgmt

import (
	"encoding/json"

	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/wifierr"
)

// Command is one management request. Op selects the operation; SSID is
// required by lookup and remove.
type Command struct {
	ID   int    `json:"id"`
	Op   string `json:"op"`
	SSID string `json:"ssid,omitempty"`
}

// Response is the reply to one Command. Exactly one of Error or the
// data fields is populated. Credential views never include password
// material.
type Response struct {
	ID    int    `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`

	SSIDs      []string        `json:"ssids,omitempty"`
	Credential *CredentialView `json:"credential,omitempty"`
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`
	Count      *int            `json:"count,omitempty"`
	Status     string          `json:"status,omitempty"`
}

// CredentialView is the secret-free projection of a stored credential.
type CredentialView struct {
	SSID            string `json:"ssid"`
	UseStatic       bool   `json:"useStatic"`
	StaticIP        string `json:"staticIp,omitempty"`
	Gateway         string `json:"gateway,omitempty"`
	Subnet          string `json:"subnet,omitempty"`
	LastSuccessUnix int64  `json:"lastSuccessUnix"`
	ConnectionCount uint32 `json:"connectionCount"`
	LastSignal      int32  `json:"lastSignal"`
}

func viewOf(c credstore.Credential) *CredentialView {
	v := &CredentialView{
		SSID:            c.SSID,
		UseStatic:       c.UseStatic,
		StaticIP:        c.StaticIP,
		Gateway:         c.Gateway,
		Subnet:          c.Subnet,
		ConnectionCount: c.ConnectionCount,
		LastSignal:      c.LastSignal,
	}
	if !c.Timestamp.IsZero() {
		v.LastSuccessUnix = c.Timestamp.Unix()
	}
	c.Password.Wipe()
	return v
}

// StatusFunc reports the daemon's connection state for the status op.
type StatusFunc func() string

// Dispatch executes one command against the store. It is pure with
// respect to the connection; the server calls it per message and tests
// call it directly.
func Dispatch(store *credstore.Store, status StatusFunc, cmd Command) Response {
	switch cmd.Op {
	case "list":
		ssids, err := store.ListSSIDs()
		if err != nil {
			return errResponse(cmd.ID, err)
		}
		return Response{ID: cmd.ID, OK: true, SSIDs: ssids}

	case "lookup":
		cred, err := store.Lookup(cmd.SSID)
		if err != nil {
			return errResponse(cmd.ID, err)
		}
		return Response{ID: cmd.ID, OK: true, Credential: viewOf(cred)}

	case "remove":
		if err := store.Remove(cmd.SSID); err != nil {
			return errResponse(cmd.ID, err)
		}
		return Response{ID: cmd.ID, OK: true}

	case "clear":
		if err := store.ClearAll(); err != nil {
			return errResponse(cmd.ID, err)
		}
		return Response{ID: cmd.ID, OK: true}

	case "export":
		snap, err := store.ExportSnapshot()
		if err != nil {
			return errResponse(cmd.ID, err)
		}
		return Response{ID: cmd.ID, OK: true, Snapshot: snap}

	case "count":
		n, err := store.Count()
		if err != nil {
			return errResponse(cmd.ID, err)
		}
		return Response{ID: cmd.ID, OK: true, Count: &n}

	case "status":
		s := "unknown"
		if status != nil {
			s = status()
		}
		return Response{ID: cmd.ID, OK: true, Status: s}

	default:
		return errResponse(cmd.ID, wifierr.Newf(wifierr.KindInvalidParameter,
			"unknown management op: %s", cmd.Op))
	}
}

func errResponse(id int, err error) Response {
	resp := Response{ID: id, Error: err.Error()}
	if kind, ok := wifierr.KindOf(err); ok {
		resp.Kind = kind.String()
	}
	return resp
}
