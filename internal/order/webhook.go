package order

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"GameStore/internal/events"
	"GameStore/pkg/kit"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "x-demo-signature"

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Expected(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time.
func (v *Verifier) Verify(body []byte, signature string) bool {
	return hmac.Equal([]byte(v.Expected(body)), []byte(signature))
}

type webhookEvent struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type okResp struct {
	OK bool `json:"ok"`
}

func (s *Server) WebhookHandler() http.HandlerFunc { return s.webhook }

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		kit.WriteJSON(w, http.StatusBadRequest, errorResp{Error: "bad request"})
		return
	}

	if !s.Verifier.Verify(body, r.Header.Get(SignatureHeader)) {
		if s.Log != nil {
			s.Log.Warn("invalid webhook signature", zap.String("remote", r.RemoteAddr))
		}
		if s.Metrics != nil {
			s.Metrics.WebhooksRejected.Inc()
		}
		kit.WriteJSON(w, http.StatusUnauthorized, errorResp{Error: "invalid signature"})
		return
	}
	if s.Metrics != nil {
		s.Metrics.WebhooksAccepted.Inc()
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		kit.WriteJSON(w, http.StatusBadRequest, errorResp{Error: "bad json"})
		return
	}

	// A missing or unknown orderId is deliberately not an error: signed
	// replays and events for foreign orders are acknowledged and dropped.
	if ev.OrderID != "" {
		status := ev.Status
		if status == "" {
			status = StatusPaid
		}

		found, err := s.Store.UpdateStatus(r.Context(), ev.OrderID, status)
		if err != nil {
			if s.Log != nil {
				s.Log.Error("update order status failed", zap.Error(err), zap.String("order_id", ev.OrderID))
			}
			kit.WriteJSON(w, http.StatusInternalServerError, errorResp{Error: "server error"})
			return
		}

		switch {
		case !found:
			if s.Log != nil {
				s.Log.Info("webhook for unknown order", zap.String("order_id", ev.OrderID))
			}
		case status == StatusPaid:
			s.publish(r.Context(), events.New(events.TypeOrderPaid, ev.OrderID, status, 0))
		}
	}

	kit.WriteJSON(w, http.StatusOK, okResp{OK: true})
}
