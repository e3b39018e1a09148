package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_reservations_created_total",
		Help: "Total number of reservations successfully created.",
	})

	ReservationsCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_reservations_cancelled_total",
		Help: "Total number of reservations cancelled, by actor.",
	},
		[]string{"by"}, // "client" or "store"
	)

	ReservationsPickedUpTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_reservations_picked_up_total",
		Help: "Total number of reservations confirmed as picked up.",
	})

	InsufficientStockTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_reservations_insufficient_stock_total",
		Help: "Total number of reservation attempts rejected for insufficient stock.",
	})

	NotificationsInsertedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_notifications_inserted_total",
		Help: "Total number of notification rows written, by recipient type.",
	},
		[]string{"user_type"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
