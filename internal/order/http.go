package order

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"GameStore/internal/events"
	"GameStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20

	downloadBaseURL = "https://example.com/downloads/"
)

type Server struct {
	Store    Store
	Verifier *Verifier
	Log      *zap.Logger

	// Optional collaborators.
	Tokens  *DownloadTokenMaker
	Events  events.Publisher
	Metrics *Metrics
}

type createReq struct {
	Items    []Item          `json:"items"`
	Customer json.RawMessage `json:"customer"`
}

type createResp struct {
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Provider      string `json:"provider"`
	DownloadToken string `json:"downloadToken,omitempty"`
}

type errorResp struct {
	Error string `json:"error"`
}

type downloadEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type downloadResp struct {
	DownloadURLs []downloadEntry `json:"downloadUrls"`
}

func (s *Server) CreateHandler() http.HandlerFunc   { return s.create }
func (s *Server) DownloadHandler() http.HandlerFunc { return s.download }

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteJSON(w, http.StatusBadRequest, errorResp{Error: "bad json"})
		return
	}
	if len(req.Items) == 0 {
		kit.WriteJSON(w, http.StatusBadRequest, errorResp{Error: "No items"})
		return
	}

	// Prices are taken from the client as-is; there is no catalog
	// cross-check. A real payment provider order would be created here.
	var amount int64
	for _, it := range req.Items {
		amount += it.Price * it.Qty
	}

	o := Order{
		ID:        "order_" + uuid.NewString(),
		Items:     req.Items,
		Customer:  req.Customer,
		Amount:    amount,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Create(r.Context(), o); err != nil {
		if s.Log != nil {
			s.Log.Error("store create order failed", zap.Error(err), zap.String("order_id", o.ID))
		}
		kit.WriteJSON(w, http.StatusInternalServerError, errorResp{Error: "server error"})
		return
	}

	if s.Metrics != nil {
		s.Metrics.OrdersCreated.Inc()
	}
	s.publish(r.Context(), events.New(events.TypeOrderCreated, o.ID, o.Status, o.Amount))

	resp := createResp{
		OrderID:  o.ID,
		Amount:   o.Amount,
		Currency: "INR",
		Provider: "mock",
	}

	if s.Tokens != nil {
		tok, err := s.Tokens.New(o.ID)
		if err != nil {
			if s.Log != nil {
				s.Log.Error("sign download token failed", zap.Error(err), zap.String("order_id", o.ID))
			}
			kit.WriteJSON(w, http.StatusInternalServerError, errorResp{Error: "server error"})
			return
		}
		resp.DownloadToken = tok
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	orderID := token
	if s.Tokens != nil {
		id, err := s.Tokens.Parse(token)
		if err != nil {
			s.denyDownload(w, "Invalid token", http.StatusNotFound)
			return
		}
		orderID = id
	}

	o, found, err := s.Store.Get(r.Context(), orderID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("store get order failed", zap.Error(err), zap.String("order_id", orderID))
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !found {
		s.denyDownload(w, "Invalid token", http.StatusNotFound)
		return
	}
	if o.Status != StatusPaid {
		s.denyDownload(w, "Order not paid", http.StatusForbidden)
		return
	}

	// Placeholder URLs; a signed object-storage URL issuer is the
	// production integration point.
	urls := make([]downloadEntry, 0, len(o.Items))
	for _, it := range o.Items {
		urls = append(urls, downloadEntry{
			Title: it.Title,
			URL:   downloadBaseURL + escapeTitle(it.Title),
		})
	}

	if s.Metrics != nil {
		s.Metrics.DownloadsServed.Inc()
	}
	kit.WriteJSON(w, http.StatusOK, downloadResp{DownloadURLs: urls})
}

const escapeUpperHex = "0123456789ABCDEF"

// escapeTitle percent-encodes like JS encodeURIComponent: only
// alphanumerics and -_.!~*'() pass through. url.PathEscape would leave
// ':' and '&' bare and QueryEscape turns spaces into '+'.
func escapeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '!' || c == '~' ||
			c == '*' || c == '\'' || c == '(' || c == ')':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(escapeUpperHex[c>>4])
			b.WriteByte(escapeUpperHex[c&0xf])
		}
	}

	return b.String()
}

func (s *Server) denyDownload(w http.ResponseWriter, msg string, status int) {
	if s.Metrics != nil {
		s.Metrics.DownloadsDenied.Inc()
	}
	http.Error(w, msg, status)
}

func (s *Server) publish(ctx context.Context, e events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, e); err != nil && s.Log != nil {
		s.Log.Warn("publish event failed", zap.Error(err), zap.String("type", e.Type), zap.String("order_id", e.OrderID))
	}
}
