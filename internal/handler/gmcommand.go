package handler

import (
	"encoding/json"
	"strings"

	"github.com/skelrealm/server/internal/net"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type adminRequest struct {
	Cmd      string `json:"cmd"`
	Password string `json:"password"`
}

// HandleAdminCommand processes an operator command. When an admin password
// hash is configured, the request must carry the matching password, which
// rules out the bare-string form.
func HandleAdminCommand(sess *net.Session, data json.RawMessage, deps *Deps) {
	req, ok := decodeAdminRequest(data)
	if !ok || req.Cmd == "" {
		return
	}
	if hash := deps.Config.Admin.PasswordHash; hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			deps.Log.Warn("admin command denied", zap.String("session", sess.ID), zap.String("cmd", req.Cmd))
			return
		}
	}

	deps.Log.Info("admin command", zap.String("session", sess.ID), zap.String("cmd", req.Cmd))

	switch strings.TrimSpace(req.Cmd) {
	case "/clean", "/청소":
		deps.Ground.ClearAll()
	default:
		deps.Log.Debug("unknown admin command", zap.String("cmd", req.Cmd))
	}
}

func decodeAdminRequest(data json.RawMessage) (adminRequest, bool) {
	var req adminRequest
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return req, false
	}
	if trimmed[0] == '"' {
		if json.Unmarshal(data, &req.Cmd) != nil {
			return req, false
		}
		return req, true
	}
	if json.Unmarshal(data, &req) != nil {
		return req, false
	}
	return req, true
}
