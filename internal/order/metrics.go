package order

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	OrdersCreated    prometheus.Counter
	WebhooksAccepted prometheus.Counter
	WebhooksRejected prometheus.Counter
	DownloadsServed  prometheus.Counter
	DownloadsDenied  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamestore_orders_created_total",
			Help: "Orders accepted by create-order",
		}),
		WebhooksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamestore_webhooks_accepted_total",
			Help: "Webhook calls with a valid signature",
		}),
		WebhooksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamestore_webhooks_rejected_total",
			Help: "Webhook calls rejected for a bad signature",
		}),
		DownloadsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamestore_downloads_served_total",
			Help: "Download requests answered with URLs",
		}),
		DownloadsDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamestore_downloads_denied_total",
			Help: "Download requests refused (unknown token or unpaid order)",
		}),
	}

	reg.MustRegister(
		m.OrdersCreated,
		m.WebhooksAccepted,
		m.WebhooksRejected,
		m.DownloadsServed,
		m.DownloadsDenied,
	)
	return m
}
