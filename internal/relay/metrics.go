package relay

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ashev87/safechat/internal/room"
)

// Drop reasons for routing no-ops.
const (
	dropSenderGone = "sender_gone"
	dropTargetGone = "target_gone"
)

// Metrics exposes routing counters and room/member gauges.
type Metrics struct {
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewMetrics registers relay metrics on reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer, rooms *room.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safechat_relay_delivered_total",
			Help: "Messages delivered, grouped by outbound event.",
		}, []string{"event"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safechat_relay_dropped_total",
			Help: "Routing no-ops, grouped by outbound event and reason.",
		}, []string{"event", "reason"}),
	}

	reg.MustRegister(
		m.delivered,
		m.dropped,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "safechat_rooms_active",
			Help: "Current number of active rooms.",
		}, func() float64 { return float64(rooms.RoomCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "safechat_members_active",
			Help: "Current number of connected room members.",
		}, func() float64 { return float64(rooms.MemberCount()) }),
	)
	return m
}
